// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package avrextra

import "testing"

func TestInit(t *testing.T) {
	state, err := Init()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range state.Skipped {
		if f.D.String() == "usartspi" {
			return
		}
	}
	t.Fatalf("usartspi must be skipped on a host: %v", state)
}
