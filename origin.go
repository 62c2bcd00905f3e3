package chunkheap

import (
	"fmt"
	"runtime"
	"strings"
)

// Origin labels the allocation site that last claimed a chunk.
type Origin struct {
	File string
	Line int
}

func (o Origin) String() string {
	if o.File == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", o.File, o.Line)
}

// Caller returns the Origin of the function skip frames above Caller's
// caller, with the file name shortened by ShortFile.
func Caller(skip int) Origin {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Origin{}
	}
	return Origin{File: ShortFile(file), Line: line}
}

// ShortFile strips every directory component from path, accepting both
// slash and backslash separators.
func ShortFile(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
