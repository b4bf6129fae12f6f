// Command glgen generates lazy GL dispatch code from Khronos API registry
// XML files.
//
// Usage:
//
//	glgen --dir out gl.xml glx.xml egl.xml wgl.xml
//
// Each input file produces one artifact pair named after the file's
// basename: out/include/gld/<target>_generated.h and
// out/src/<target>_generated_dispatch.c.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
