package interactive_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/joshyorko/btmgr/hamlet"
	"github.com/joshyorko/btmgr/interactive"
)

func TestHistoryBrowsing(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	sut := interactive.NewCommandHistory("")
	_, ok := sut.Previous()
	wont_be.True(ok)

	sut.Add("ls")
	sut.Add("cd /00:1A:7D:DA:71:13")
	sut.Add("cd /00:1A:7D:DA:71:13")
	sut.Add("")
	must_be.Equal([]string{"cd /00:1A:7D:DA:71:13", "ls"}, sut.Latest(5))

	line, ok := sut.Previous()
	must_be.True(ok)
	must_be.Equal("cd /00:1A:7D:DA:71:13", line)
	line, _ = sut.Previous()
	must_be.Equal("ls", line)
	line, _ = sut.Previous()
	must_be.Equal("ls", line)

	line, ok = sut.Next()
	must_be.True(ok)
	must_be.Equal("cd /00:1A:7D:DA:71:13", line)
	line, ok = sut.Next()
	must_be.True(ok)
	must_be.Equal("", line)
	_, ok = sut.Next()
	wont_be.True(ok)
}

func TestHistoryPersistsAndTrims(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	filename := filepath.Join(t.TempDir(), "nested", "history.json")
	sut := interactive.NewCommandHistory(filename)
	must_be.Nil(sut.Load())
	for round := 0; round < 250; round++ {
		sut.Add(fmt.Sprintf("info %d", round))
	}
	must_be.Nil(sut.Save())

	loaded := interactive.NewCommandHistory(filename)
	must_be.Nil(loaded.Load())
	latest := loaded.Latest(1000)
	must_be.Equal(200, len(latest))
	must_be.Equal("info 249", latest[0])
	must_be.Equal("info 50", latest[199])
}
