// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package model

import "time"

// Event holds the static details of the celebration. It is built once
// from configuration and never mutated afterwards.
type Event struct {
	Title         string
	Description   string
	Location      string
	Start         time.Time
	End           time.Time
	AllDay        bool
	Timezone      string
	TimezoneLabel string
}
