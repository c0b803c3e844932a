// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package resourcetag

// Version set at compile time
var Version = "0.0.0"
