package frontline

import (
	"sort"
	"strings"
)

// TriggerTag labels an input as belonging to one topical keyword group.
type TriggerTag string

const (
	TagForce     TriggerTag = "force"
	TagSearch    TriggerTag = "search"
	TagDetention TriggerTag = "detention"
	TagProcedure TriggerTag = "procedure"
)

// tagPriority fixes which tag drives draft selection when an input matches
// several groups. Lower is higher priority.
var tagPriority = map[TriggerTag]int{
	TagForce:     0,
	TagSearch:    1,
	TagDetention: 2,
	TagProcedure: 3,
}

// keywordGroups maps each tag to the phrases that raise it. Matching is
// case-insensitive substring matching over the whole input.
var keywordGroups = map[TriggerTag][]string{
	TagForce: {
		"hit me", "struck", "tackled", "slammed", "tased", "taser",
		"pepper spray", "used force", "beat me", "grabbed me",
	},
	TagSearch: {
		"search", "warrant", "frisk", "pat down", "patted me down",
		"went through my", "looked through my",
	},
	TagDetention: {
		"arrest", "detained", "detain", "handcuff", "custody",
		"pulled over", "stopped me", "wouldn't let me leave",
	},
	TagProcedure: {
		"court date", "hearing", "summons", "charge", "charged with",
		"miranda", "read me my rights", "bail", "arraignment", "plea",
	},
}

// classify returns every tag whose group matches the input, sorted by
// priority. Deterministic and order-independent in the input.
func classify(input string) []TriggerTag {
	lowered := strings.ToLower(input)
	var tags []TriggerTag
	for tag, phrases := range keywordGroups {
		for _, p := range phrases {
			if strings.Contains(lowered, p) {
				tags = append(tags, tag)
				break
			}
		}
	}
	sort.Slice(tags, func(i, j int) bool {
		return tagPriority[tags[i]] < tagPriority[tags[j]]
	})
	return tags
}
