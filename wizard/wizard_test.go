package wizard_test

import (
	"strings"
	"testing"

	"github.com/joshyorko/btmgr/hamlet"
	"github.com/joshyorko/btmgr/pretty"
	"github.com/joshyorko/btmgr/wizard"
)

func interactively(t *testing.T, answers string) {
	original := pretty.Interactive
	pretty.Interactive = true
	wizard.SetInput(strings.NewReader(answers))
	t.Cleanup(func() {
		pretty.Interactive = original
		wizard.SetInput(strings.NewReader(""))
	})
}

func TestConfirmWithoutTerminal(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	original := pretty.Interactive
	defer func() { pretty.Interactive = original }()
	pretty.Interactive = false

	result, err := wizard.Confirm("Purge?", true)
	must_be.Nil(err)
	must_be.True(result)

	result, err = wizard.Confirm("Purge?", false)
	must_be.ErrorIs(err, wizard.ErrConfirmationRequired)
	wont_be.True(result)

	_, err = wizard.ConfirmDangerous("Purge?", false)
	must_be.ErrorIs(err, wizard.ErrConfirmationRequired)
}

func TestConfirmRetriesUntilValid(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	interactively(t, "maybe\ny\n\n")
	result, err := wizard.Confirm("Purge?", false)
	must_be.Nil(err)
	must_be.True(result)

	result, err = wizard.Confirm("Purge?", false)
	must_be.Nil(err)
	wont_be.True(result)
}

func TestConfirmDangerousWantsYes(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	interactively(t, "y\nYES\n\n")
	result, err := wizard.ConfirmDangerous("Purge journal?", false)
	must_be.Nil(err)
	must_be.True(result)

	result, err = wizard.ConfirmDangerous("Purge journal?", false)
	must_be.Nil(err)
	wont_be.True(result)
}

func TestSinkQuestionsAndAnswers(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	current := map[string]string{
		"mqtt.enabled":  "false",
		"mqtt.broker":   "tcp://localhost:1883",
		"mqtt.prefix":   "btmgr",
		"mqtt.username": "",
		"mqtt.qos":      "1",
	}
	questions, err := wizard.SinkQuestions("mqtt", func(key string) string { return current[key] })
	must_be.Nil(err)
	must_be.Equal(5, len(questions))
	must_be.Equal("tcp://localhost:1883", questions[1].Defaults)

	interactively(t, "true\nbroker.lan:1883\ntcp://broker.lan:1883\nhome/bt\n\n3\n0\n")
	answers, err := wizard.Ask(questions)
	must_be.Nil(err)
	must_be.Equal("true", answers["mqtt.enabled"])
	must_be.Equal("tcp://broker.lan:1883", answers["mqtt.broker"])
	must_be.Equal("home/bt", answers["mqtt.prefix"])
	must_be.Equal("", answers["mqtt.username"])
	must_be.Equal("0", answers["mqtt.qos"])

	_, err = wizard.SinkQuestions("kafka", func(string) string { return "" })
	must_be.True(err != nil)
}
