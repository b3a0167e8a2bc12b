package vm

import "fmt"

const debugVM = false

func debugPrintf(format string, args ...interface{}) {
	if debugVM {
		fmt.Printf(format, args...)
	}
}
