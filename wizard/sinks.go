package wizard

import (
	"fmt"
	"regexp"
)

var (
	brokerPattern = regexp.MustCompile(`^(tcp|ssl|ws|wss|mqtt|mqtts)://[\w.\-]+(:\d+)?$`)
	urlPattern    = regexp.MustCompile(`^https?://[\w.\-]+(:\d+)?(/.*)?$`)
	topicPattern  = regexp.MustCompile(`^[\w\-]+(/[\w\-]+)*$`)
	namePattern   = regexp.MustCompile(`^[\w.\-]+$`)
	anything      = regexp.MustCompile(`^.*$`)
	booleans      = []string{"true", "false"}
)

// Question maps one setting key to a prompt.
type Question struct {
	Key      string
	Prompt   string
	Pattern  *regexp.Regexp
	Members  []string
	Erratic  string
	Defaults string
}

func (it Question) validator() Validator {
	if len(it.Members) > 0 {
		return memberValidation(it.Members, it.Erratic)
	}
	return regexpValidation(it.Pattern, it.Erratic)
}

// SinkQuestions lists the questions of one notification sink, "mqtt" or
// "influx". Current values become the defaults.
func SinkQuestions(sink string, current func(string) string) ([]Question, error) {
	var result []Question
	switch sink {
	case "mqtt":
		result = []Question{
			{Key: "mqtt.enabled", Prompt: "Publish notifications to MQTT?", Members: booleans, Erratic: "Answer true or false."},
			{Key: "mqtt.broker", Prompt: "Broker URL", Pattern: brokerPattern, Erratic: "Broker URL looks like tcp://host:1883."},
			{Key: "mqtt.prefix", Prompt: "Topic prefix", Pattern: topicPattern, Erratic: "Use topic segments without wildcards."},
			{Key: "mqtt.username", Prompt: "Username (empty for none)", Pattern: anything},
			{Key: "mqtt.qos", Prompt: "QoS", Members: []string{"0", "1", "2"}, Erratic: "QoS is 0, 1 or 2."},
		}
	case "influx":
		result = []Question{
			{Key: "influx.enabled", Prompt: "Write RSSI and values to InfluxDB?", Members: booleans, Erratic: "Answer true or false."},
			{Key: "influx.url", Prompt: "Server URL", Pattern: urlPattern, Erratic: "Server URL looks like http://host:8086."},
			{Key: "influx.org", Prompt: "Organization", Pattern: namePattern, Erratic: "Organization name has no spaces."},
			{Key: "influx.bucket", Prompt: "Bucket", Pattern: namePattern, Erratic: "Bucket name has no spaces."},
		}
	default:
		return nil, fmt.Errorf("Unknown sink %q, expected mqtt or influx.", sink)
	}
	for at := range result {
		result[at].Defaults = current(result[at].Key)
	}
	return result, nil
}

// Ask goes through questions in order and returns answers by key.
func Ask(questions []Question) (map[string]string, error) {
	note("Press enter to keep the value in brackets.")
	result := make(map[string]string)
	for _, question := range questions {
		answer, err := ask(question.Prompt, question.Defaults, question.validator())
		if err != nil {
			return nil, err
		}
		result[question.Key] = answer
	}
	return result, nil
}
