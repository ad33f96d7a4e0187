// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package cscell

// RaceEnabled is true when the race detector is active.
// Used by tests to skip stress tests synchronized only through the
// domain lock word, whose atomix orderings the detector cannot track.
const RaceEnabled = true
