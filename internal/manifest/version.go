// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"fmt"

	"github.com/kkx/mcl/internal/fetch"
)

type (
	// Version is a per-version document describing everything needed to
	// install and launch one game version.
	Version struct {
		ID                     string        `json:"id"`
		Arguments              *Arguments    `json:"arguments,omitempty"`
		MinecraftArguments     string        `json:"minecraftArguments,omitempty"`
		AssetIndex             AssetIndexRef `json:"assetIndex"`
		Assets                 string        `json:"assets"`
		Downloads              Downloads     `json:"downloads"`
		Libraries              []Library     `json:"libraries"`
		Logging                *Logging      `json:"logging,omitempty"`
		JavaVersion            *JavaVersion  `json:"javaVersion,omitempty"`
		MainClass              string        `json:"mainClass"`
		Type                   VersionType   `json:"type"`
		Time                   string        `json:"time"`
		ReleaseTime            string        `json:"releaseTime"`
		ComplianceLevel        *int          `json:"complianceLevel,omitempty"`
		MinimumLauncherVersion int           `json:"minimumLauncherVersion"`
	}

	// Arguments holds the modern, rule-aware argument lists.
	Arguments struct {
		Game []RawArgument `json:"game"`
		JVM  []RawArgument `json:"jvm"`
	}

	// AssetIndexRef points at the asset index of a version.
	AssetIndexRef struct {
		ID        string       `json:"id"`
		SHA1      fetch.Digest `json:"sha1"`
		Size      int64        `json:"size"`
		TotalSize int64        `json:"totalSize"`
		URL       string       `json:"url"`
	}

	// Download is a single hash-addressed file.
	Download struct {
		SHA1 fetch.Digest `json:"sha1"`
		Size int64        `json:"size"`
		URL  string       `json:"url"`
	}

	// Downloads lists the jars and mappings published for a version.
	Downloads struct {
		Client         Download  `json:"client"`
		ClientMappings *Download `json:"client_mappings,omitempty"`
		Server         *Download `json:"server,omitempty"`
		ServerMappings *Download `json:"server_mappings,omitempty"`
	}

	// JavaVersion names the Java runtime a version expects.
	JavaVersion struct {
		Component    string `json:"component"`
		MajorVersion int    `json:"majorVersion"`
	}

	// Logging describes the client's logging configuration file.
	Logging struct {
		Client *LoggingClient `json:"client,omitempty"`
	}

	// LoggingClient is the client side logging configuration. Argument
	// contains a ${path} placeholder for the downloaded File.
	LoggingClient struct {
		Argument string      `json:"argument"`
		File     LoggingFile `json:"file"`
		Type     string      `json:"type"`
	}

	// LoggingFile is the downloadable logging configuration.
	LoggingFile struct {
		ID   string       `json:"id"`
		SHA1 fetch.Digest `json:"sha1"`
		Size int64        `json:"size"`
		URL  string       `json:"url"`
	}
)

// Hash returns the verification hash for the download.
func (d *Download) Hash() fetch.Hash { return fetch.SHA1(d.SHA1) }

// Hash returns the verification hash for the logging file.
func (f *LoggingFile) Hash() fetch.Hash { return fetch.SHA1(f.SHA1) }

// FetchIndex returns the asset index, cached at path and verified against its
// published digest.
func (r *AssetIndexRef) FetchIndex(ctx context.Context, c *fetch.Client, path string) (*AssetIndex, error) {
	idx, err := fetch.GetJSON[AssetIndex](ctx, c, r.URL, path, fetch.SHA1(r.SHA1), 0)
	if err != nil {
		return nil, fmt.Errorf("loading asset index %s: %w", r.ID, err)
	}
	return &idx, nil
}
