// SPDX-License-Identifier: MIT

package confint_test

import (
	"fmt"

	"github.com/katalvlaran/minweights/confint"
)

func ExampleBuild() {
	iv, err := confint.Build(1.0)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("lower=%.1f upper>1: %v\n", iv.Lower, iv.Upper > 1)
	// Output:
	// lower=0.0 upper>1: true
}
