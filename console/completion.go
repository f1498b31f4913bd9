package console

import (
	"strings"

	"github.com/joshyorko/btmgr/capability"
	"github.com/joshyorko/btmgr/governor"
	"github.com/joshyorko/btmgr/resolver"
)

// Complete returns candidates for the last word of line. Words holding
// spaces come back quoted so they split the same way when executed.
func (it *Console) Complete(line string) []string {
	words := strings.Fields(line)
	partial := ""
	if len(words) > 0 && !strings.HasSuffix(line, " ") && !strings.HasSuffix(line, "\t") {
		partial = words[len(words)-1]
		words = words[:len(words)-1]
	}
	if len(words) == 0 {
		return it.completeVerb(0, partial)
	}
	entry, ok := lookup(strings.ToLower(words[0]))
	if !ok || entry.complete == nil || !entry.available(it) {
		return []string{}
	}
	return entry.complete(it, len(words)-1, partial)
}

func matching(candidates []string, partial string) []string {
	prefix := strings.ToLower(strings.Trim(partial, `"'`))
	result := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if strings.HasPrefix(strings.ToLower(candidate), prefix) {
			result = append(result, quoted(candidate))
		}
	}
	return result
}

func quoted(word string) string {
	if strings.ContainsAny(word, " \t") {
		return `"` + word + `"`
	}
	return word
}

func (it *Console) completeVerb(position int, partial string) []string {
	if position > 0 {
		return []string{}
	}
	available := make([]string, 0, len(byName))
	for _, name := range names() {
		if byName[name].available(it) {
			available = append(available, name)
		}
	}
	return matching(available, partial)
}

func (it *Console) completeAddress(position int, partial string) []string {
	if position > 0 {
		return []string{}
	}
	candidates := it.resolver.Complete(partial)
	if it.state.IsSelected() && strings.HasPrefix(resolver.ParentToken, partial) {
		candidates = append([]string{resolver.ParentToken}, candidates...)
	}
	return candidates
}

func (it *Console) completeAttribute(position int, partial string) []string {
	handle, ok := it.state.Selected()
	if !ok || position > 0 {
		return []string{}
	}
	return matching(capability.Labels(handle.Kind(), true), partial)
}

func (it *Console) completeField(position int, partial string) []string {
	characteristic, ok := it.selectedCharacteristic()
	if !ok || position > 0 || it.catalog == nil {
		return []string{}
	}
	request, err := it.catalog.Prepare(characteristic.Address().CharacteristicID())
	if err != nil {
		return []string{}
	}
	return matching(request.FieldNames(), partial)
}

func (it *Console) completeSwitch(position int, partial string) []string {
	if position > 0 {
		return []string{}
	}
	return matching([]string{"on", "off"}, partial)
}

// Selected exposes the selected handle for callers that decorate prompts.
func (it *Console) Selected() (governor.Handle, bool) {
	return it.state.Selected()
}
