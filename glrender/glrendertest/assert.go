package glrendertest

import "github.com/gm8run/glrender/glrender"

var _ glrender.Backend = (*Recorder)(nil)
