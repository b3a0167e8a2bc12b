package repair

import "fmt"

const debugRepair = false

func debugPrintf(format string, args ...interface{}) {
	if debugRepair {
		fmt.Printf(format, args...)
	}
}
