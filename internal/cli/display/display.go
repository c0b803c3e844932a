// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package display

import (
	"fmt"
	"io"
)

func Success(w io.Writer, msg string) {
	fmt.Fprint(w, Green(fmt.Sprintf("%s\n", msg)))
}

func Warning(w io.Writer, msg string) {
	fmt.Fprint(w, Gold(fmt.Sprintf("Warning: %s\n", msg)))
}

func Error(w io.Writer, msg string) {
	fmt.Fprint(w, Red(fmt.Sprintf("Error: %s\n", msg)))
}
