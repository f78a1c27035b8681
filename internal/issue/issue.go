// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	InstanceNotFoundId
	InstanceAlreadyExistsId
	InvalidInstanceIdId
	ComponentAlreadyAddedId
	UnknownComponentKindId
	VersionNotFoundId
	NetworkFailureId
	IntegrityFailureId
	UnsupportedPlatformId
	MetadataDecodeFailedId
	PermissionDeniedId
)

type (
	// MarkdownMsg is catalog text rendered with glamour.
	MarkdownMsg string

	// HttpLink is a documentation or reference URL.
	HttpLink string

	// Issue is a user-facing explanation of a failure class with remediation
	// steps.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id { return i.id }

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Render renders the issue as terminal markdown using the glamour style at
// stylePath ("dark", "light", "notty", or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your config.cue could not be read or does not match the schema.

## Things you can try:
- Show where mcl looks for the file:
~~~
$ mcl config path
~~~

- Compare your file with the defaults:
~~~
$ mcl config dump
~~~

- Check MCL_* environment variables, which override the file`,
	}

	instanceNotFoundIssue = &Issue{
		id: InstanceNotFoundId,
		mdMsg: `
# Instance not found!

No instance directory with a meta.json exists under that name.

## Things you can try:
- List the instances mcl knows about:
~~~
$ mcl instance list
~~~

- Create a new one:
~~~
$ mcl instance create my-instance --version latest
~~~`,
	}

	instanceAlreadyExistsIssue = &Issue{
		id: InstanceAlreadyExistsId,
		mdMsg: `
# Instance already exists!

An instance directory with that name is already present, and mcl never
overwrites one.

## Things you can try:
- Choose a different name
- Rename the existing instance first:
~~~
$ mcl instance rename old-name new-name
~~~`,
	}

	invalidInstanceIdIssue = &Issue{
		id: InvalidInstanceIdId,
		mdMsg: `
# Invalid instance name!

Instance names become directory names, so they must be non-empty and must
not contain path separators or be reserved device names such as CON or NUL.

## Things you can try:
- Use letters, digits, dots, dashes and underscores, for example ` + "`1.20-vanilla`",
	}

	componentAlreadyAddedIssue = &Issue{
		id: ComponentAlreadyAddedId,
		mdMsg: `
# Component already added!

An instance holds at most one component of each kind.

## Things you can try:
- Inspect the instance:
~~~
$ mcl instance show my-instance
~~~

- Edit its meta.json to change the version of the existing component`,
	}

	unknownComponentKindIssue = &Issue{
		id: UnknownComponentKindId,
		mdMsg: `
# Unknown component kind!

The component id is not one mcl can install.

## Supported kinds:
- ` + "`minecraft-client`" + `
- ` + "`authlib-injector`",
	}

	versionNotFoundIssue = &Issue{
		id: VersionNotFoundId,
		mdMsg: `
# Version not found!

The version manifest has no entry with that id.

## Things you can try:
- Use ` + "`latest`" + ` or ` + "`stable`" + ` to follow the newest snapshot or release
- Check the spelling of the version id, for example ` + "`1.20.1`" + `
- Lower ` + "`manifest_ttl`" + ` if the version was published recently`,
		extLinks: []HttpLink{"https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"},
	}

	networkFailureIssue = &Issue{
		id: NetworkFailureId,
		mdMsg: `
# Download failed!

A remote file could not be fetched and no cached copy was available.

## Things you can try:
- Check your internet connection and proxy settings
- Retry the command; downloads that already finished are not repeated
- Raise ` + "`http.timeout`" + ` in your configuration on slow links`,
	}

	integrityFailureIssue = &Issue{
		id: IntegrityFailureId,
		mdMsg: `
# Integrity check failed!

A downloaded file did not match its published SHA-1 digest. Nothing was
written to disk.

## Things you can try:
- Retry the command, the mirror may have served a partial file
- Check whether a proxy rewrites downloads`,
	}

	unsupportedPlatformIssue = &Issue{
		id: UnsupportedPlatformId,
		mdMsg: `
# Platform not supported!

This version ships native libraries only for Linux, macOS and Windows.

## Things you can try:
- Pick a newer version with native libraries for your platform`,
	}

	metadataDecodeFailedIssue = &Issue{
		id: MetadataDecodeFailedId,
		mdMsg: `
# Metadata could not be decoded!

A cached or downloaded JSON document did not have the expected shape.

## Things you can try:
- Delete the cached file named in the error and retry
- For an instance, check its meta.json for hand edits`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

mcl could not write to its data directory.

## Things you can try:
- Check ownership of the data directory
- Point ` + "`data_dir`" + ` at a directory you own`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		instanceNotFoundIssue.Id():      instanceNotFoundIssue,
		instanceAlreadyExistsIssue.Id(): instanceAlreadyExistsIssue,
		invalidInstanceIdIssue.Id():     invalidInstanceIdIssue,
		componentAlreadyAddedIssue.Id(): componentAlreadyAddedIssue,
		unknownComponentKindIssue.Id():  unknownComponentKindIssue,
		versionNotFoundIssue.Id():       versionNotFoundIssue,
		networkFailureIssue.Id():        networkFailureIssue,
		integrityFailureIssue.Id():      integrityFailureIssue,
		unsupportedPlatformIssue.Id():   unsupportedPlatformIssue,
		metadataDecodeFailedIssue.Id():  metadataDecodeFailedIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
