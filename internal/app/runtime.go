package app

import (
	"os"
	"sync"
)

const testModeEnv = "SHELTERSTOCK_TEST_MODE"

// InTestMode reports whether the process runs under the test harness, in which
// case the router skips the request logger and the binaries skip side effects.
// The flag is read once.
var InTestMode = sync.OnceValue(func() bool {
	return os.Getenv(testModeEnv) == "1"
})
