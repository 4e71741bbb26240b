package storage

import "ffaudio/internal/ports"

// Scratch is the temporary-file contract used by the processor and handlers.
// It is an alias to ports.ScratchStore to keep call-sites simple.
type Scratch = ports.ScratchStore
