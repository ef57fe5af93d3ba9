//go:build !linux

package canvas

import "os"

func preallocate(*os.File, int64) error { return nil }

func syncDir(string) error { return nil }
