package xviper

import (
	"crypto/sha256"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

const (
	identityKey = `console.identity`
)

var (
	guidSteps = []int{4, 2, 2, 2, 6}
)

func AsGuid(content []byte) string {
	result := make([]string, 0, len(guidSteps))
	for _, step := range guidSteps {
		result = append(result, fmt.Sprintf("%02x", content[:step]))
		content = content[step:]
	}
	return strings.Join(result, "-")
}

func generateRandomIdentity() string {
	now := time.Now()
	digester := sha256.New()
	content := fmt.Sprintf("ID: %v/%v/%v", now.Format(time.RFC3339Nano), rand.Uint64(), rand.Uint64())
	digester.Write([]byte(content))
	return AsGuid(digester.Sum(nil))
}

// ConsoleIdentity is a stable random identity of this installation. It is
// created and stored on first use and names the console towards brokers.
func ConsoleIdentity() string {
	identity := GetString(identityKey)
	if len(identity) == 0 {
		identity = generateRandomIdentity()
		Set(identityKey, identity)
	}
	return identity
}

func sortStrings(values []string) {
	sort.Strings(values)
}
