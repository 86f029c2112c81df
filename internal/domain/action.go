package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Action is the operation requested on the command line.
type Action int

const (
	ActionNotSet            Action = -1
	ActionNone              Action = 0
	ActionGetMapping        Action = 1
	ActionUpdateMapping     Action = 2
	ActionCreateSnapshot    Action = 3
	ActionRestoreAndReindex Action = 4
)

// Actions lists the selectable actions in menu order.
var Actions = []Action{
	ActionNone,
	ActionGetMapping,
	ActionUpdateMapping,
	ActionCreateSnapshot,
	ActionRestoreAndReindex,
}

var actionNames = map[Action]string{
	ActionNotSet:            "not-set",
	ActionNone:              "none",
	ActionGetMapping:        "get-mapping",
	ActionUpdateMapping:     "update-mapping",
	ActionCreateSnapshot:    "create-snapshot",
	ActionRestoreAndReindex: "restore-and-reindex",
}

var actionDescriptions = map[Action]string{
	ActionNone:              "Nothing, just exit",
	ActionGetMapping:        "Get the current index mapping (read only)",
	ActionUpdateMapping:     "Update the mappings for the index",
	ActionCreateSnapshot:    "Create a snapshot for the index",
	ActionRestoreAndReindex: "Restore a snapshot for the index and reindex",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Description is the menu label.
func (a Action) Description() string {
	return fmt.Sprintf("%d - %s", int(a), actionDescriptions[a])
}

// ParseAction accepts a number (0-4) or a name such as "update-mapping".
// An empty string yields ActionNotSet.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ActionNotSet, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		a := Action(n)
		if _, ok := actionDescriptions[a]; ok {
			return a, nil
		}
		return ActionNotSet, fmt.Errorf("invalid action %q: valid options are 0-4", s)
	}

	for a, name := range actionNames {
		if name == s && a != ActionNotSet {
			return a, nil
		}
	}
	return ActionNotSet, fmt.Errorf("invalid action %q", s)
}
