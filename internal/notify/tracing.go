// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package notify

import "go.opentelemetry.io/otel"

var tracer = otel.GetTracerProvider().Tracer("github.com/quixsi/rsvp/internal/notify")
