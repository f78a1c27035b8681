// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into user-facing guidance.
//
// ActionableError attaches the failed operation, the resource involved, and
// remediation hints to an error at the CLI boundary. The Issue catalog holds
// longer Markdown explanations per failure class, rendered with glamour.
package issue
