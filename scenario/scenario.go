package scenario

import (
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/google/uuid"
	"github.com/webshop-qa/storefront-e2e/config"
	"github.com/webshop-qa/storefront-e2e/pages"
	"github.com/webshop-qa/storefront-e2e/session"
)

// Tag categorizes scenarios for filtered runs.
type Tag string

// Scenario categories.
const (
	TagSmoke      Tag = "smoke"
	TagRegression Tag = "regression"
	TagNegative   Tag = "negative"
	TagLogin      Tag = "login"
	TagCart       Tag = "cart"
	TagCheckout   Tag = "checkout"
)

// DataRecord is one structured test-data payload a scenario is
// parametrized over, e.g. an invalid credential tuple.
type DataRecord struct {
	Name   string
	Values map[string]string
}

// Flow is what a running execution unit sees: its exclusively owned
// session plus the read-only run configuration and its data slice.
type Flow struct {
	Session *session.Session
	Logger  log.Logger
	Config  config.Config
	UserKey string
	User    config.User
	Data    DataRecord
}

// LoginPage returns the entry page object of every flow.
func (f *Flow) LoginPage() *pages.LoginPage {
	return pages.NewLoginPage(f.Session, f.Logger, f.Config.Environment.BaseURL)
}

// Scenario is a named, tagged, parametrizable test flow. A single
// scenario expands into one execution unit per (user × data record)
// combination.
type Scenario struct {
	Name  string
	Tags  []Tag
	Users []string
	Data  []DataRecord
	Run   func(f *Flow) error
}

// HasAnyTag reports whether the scenario carries at least one of the
// given tags. An empty filter matches everything.
func (s Scenario) HasAnyTag(tags []Tag) bool {
	if len(tags) == 0 {
		return true
	}
	for _, want := range tags {
		for _, have := range s.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}

// ExecutionUnit is one test case instance: one scenario bound to one
// (user, data) combination. It owns exactly one session for its
// duration at execution time.
type ExecutionUnit struct {
	ID       string
	Name     string
	Scenario Scenario
	UserKey  string
	Data     DataRecord
}

// Expand deterministically turns scenarios into execution units,
// preserving scenario order, then user order, then data order, and
// keeping only scenarios matching the tag filter.
func Expand(scenarios []Scenario, filter []Tag) []ExecutionUnit {
	var units []ExecutionUnit
	for _, s := range scenarios {
		if !s.HasAnyTag(filter) {
			continue
		}

		users := s.Users
		if len(users) == 0 {
			users = []string{""}
		}
		records := s.Data
		if len(records) == 0 {
			records = []DataRecord{{}}
		}

		for _, userKey := range users {
			for _, record := range records {
				units = append(units, ExecutionUnit{
					ID:       uuid.NewString(),
					Name:     unitName(s.Name, userKey, record.Name),
					Scenario: s,
					UserKey:  userKey,
					Data:     record,
				})
			}
		}
	}
	return units
}

func unitName(parts ...string) string {
	var nonEmpty []string
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, "/")
}

// TagsToStrings converts tags for the result records.
func TagsToStrings(tags []Tag) []string {
	strs := make([]string, 0, len(tags))
	for _, tag := range tags {
		strs = append(strs, string(tag))
	}
	return strs
}

// ParseTags parses a comma-separated tag list, ignoring empty entries.
func ParseTags(raw string) []Tag {
	var tags []Tag
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			tags = append(tags, Tag(part))
		}
	}
	return tags
}
