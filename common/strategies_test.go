package common_test

import (
	"path/filepath"
	"testing"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/hamlet"
)

func TestBtmgrStrategyDefaults(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	t.Setenv(common.BTMGR_HOME_VARIABLE, "")
	t.Setenv(common.BTMGR_PRODUCT_NAME, "")

	strategy := common.BtmgrMode()

	must_be.Equal("btmgr", strategy.Name())
	must_be.Equal(common.BTMGR_HOME_VARIABLE, strategy.HomeVariable())
	must_be.True(filepath.IsAbs(strategy.Home()))
	must_be.Equal(filepath.Join(strategy.Home(), "settings.yaml"), strategy.SettingsFile())
	must_be.Equal(filepath.Join(strategy.Home(), "history.json"), strategy.HistoryFile())
	must_be.Equal(filepath.Join(strategy.Home(), "journal.db"), strategy.JournalFile())
}

func TestBtmgrStrategyProductNameOverride(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	t.Setenv(common.BTMGR_PRODUCT_NAME, "Custom Name")
	strategy := common.BtmgrMode()

	must_be.Equal("Custom Name", strategy.Name())
}

func TestBtmgrStrategyHomePriority(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	overrideDir := t.TempDir()
	variableDir := t.TempDir()

	product := common.BtmgrMode()
	product.ForceHome(overrideDir)
	must_be.Equal(overrideDir, product.Home())

	product = common.BtmgrMode()
	t.Setenv(common.BTMGR_HOME_VARIABLE, variableDir)
	must_be.Equal(variableDir, product.Home())
}

func TestBtmgrStrategyFreshInstallUsesDotFolder(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	t.Setenv(common.BTMGR_HOME_VARIABLE, "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	strategy := common.BtmgrMode()
	must_be.Equal(filepath.Clean(filepath.Join(home, ".btmgr")), filepath.Clean(strategy.Home()))
}

func TestExpandPathUsesEnvironment(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	folder := t.TempDir()
	t.Setenv("BTMGR_TEST_FOLDER", folder)
	must_be.Equal(filepath.Join(folder, "vendor"), common.ExpandPath("$BTMGR_TEST_FOLDER/vendor"))
}
