package common

import (
	"os"
	"path/filepath"
)

const (
	BTMGR_HOME_VARIABLE  = `BTMGR_HOME`
	BTMGR_PRODUCT_NAME   = `BTMGR_PRODUCT_NAME`
	BTMGR_NAME           = `btmgr`
	SETTINGS_FILE_NAME   = `settings.yaml`
	HISTORY_FILE_NAME    = `history.json`
	JOURNAL_FILE_NAME    = `journal.db`
	SCHEMA_EXTENSION_DIR = `$HOME/.bluetooth_smart`
)

type (
	ProductStrategy interface {
		Name() string
		ForceHome(string)
		HomeVariable() string
		Home() string
		SettingsFile() string
		HistoryFile() string
		JournalFile() string
	}

	btmgrStrategy struct {
		forcedHome string
	}
)

var Product = BtmgrMode()

func BtmgrMode() ProductStrategy {
	return &btmgrStrategy{}
}

func (it *btmgrStrategy) Name() string {
	if value := os.Getenv(BTMGR_PRODUCT_NAME); len(value) > 0 {
		return value
	}
	return BTMGR_NAME
}

func (it *btmgrStrategy) ForceHome(value string) {
	it.forcedHome = value
}

func (it *btmgrStrategy) HomeVariable() string {
	return BTMGR_HOME_VARIABLE
}

func (it *btmgrStrategy) Home() string {
	if len(it.forcedHome) > 0 {
		return ExpandPath(it.forcedHome)
	}
	home := os.Getenv(BTMGR_HOME_VARIABLE)
	if len(home) > 0 {
		return ExpandPath(home)
	}
	return ExpandPath(defaultHomeLocation)
}

func (it *btmgrStrategy) SettingsFile() string {
	return filepath.Join(it.Home(), SETTINGS_FILE_NAME)
}

func (it *btmgrStrategy) HistoryFile() string {
	return filepath.Join(it.Home(), HISTORY_FILE_NAME)
}

func (it *btmgrStrategy) JournalFile() string {
	return filepath.Join(it.Home(), JOURNAL_FILE_NAME)
}

func ExpandPath(entry string) string {
	intermediate := os.ExpandEnv(entry)
	result, err := filepath.Abs(intermediate)
	if err != nil {
		return intermediate
	}
	return result
}
