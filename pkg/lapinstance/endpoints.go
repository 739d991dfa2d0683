package lapinstance

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Resource is a backend entity type with its own set of operations.
type Resource string

const (
	ResourceRaids               Resource = "raids"
	ResourceUserCharacters      Resource = "userCharacters"
	ResourceApplicationSettings Resource = "applicationSettings"
	ResourceUsers               Resource = "users"
	ResourceSession             Resource = "session"
	ResourceRaidTypes           Resource = "raidTypes"
	ResourceRoster              Resource = "roster"
)

// Operation names a single backend endpoint.
type Operation string

const (
	OpFindAllRaids                   Operation = "findAllRaids"
	OpSaveRaid                       Operation = "saveRaid"
	OpDeleteRaid                     Operation = "deleteRaid"
	OpGetRaid                        Operation = "getRaid"
	OpFindMissingRaidSubscriptions   Operation = "findMissingRaidSubscriptions"
	OpNotifyMissingRaidSubscriptions Operation = "notifyMissingRaidSubscriptions"
	OpFindRaidSubscriptions          Operation = "findRaidSubscriptions"
	OpSaveRaidSubscription           Operation = "saveRaidSubscription"
	OpFindAllUserCharacters          Operation = "findAllUserCharacters"
	OpGetApplicationSettings         Operation = "getApplicationSettings"
	OpFindAllUsers                   Operation = "findAllUsers"
	OpFindUserCharacters             Operation = "findUserCharacters"
	OpSaveUserCharacter              Operation = "saveUserCharacter"
	OpFindUserRosterMemberships      Operation = "findUserRosterMemberships"
	OpFindUserSubscriptions          Operation = "findUserSubscriptions"
	OpGetCurrentUser                 Operation = "getCurrentUser"
	OpNextReset                      Operation = "nextReset"
	OpAddRosterMember                Operation = "addRosterMember"
	OpFindAllRosterMembers           Operation = "findAllRosterMembers"
	OpRemoveRosterMember             Operation = "removeRosterMember"
)

// Endpoint fixes the HTTP method and path template of an operation.
// Path placeholders are written as {name}.
type Endpoint struct {
	Operation Operation `json:"operation"`
	Resource  Resource  `json:"resource"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
}

var catalogue = []Endpoint{
	{OpFindAllRaids, ResourceRaids, http.MethodGet, "/raids"},
	{OpSaveRaid, ResourceRaids, http.MethodPost, "/raids"},
	{OpDeleteRaid, ResourceRaids, http.MethodDelete, "/raids/{id}"},
	{OpGetRaid, ResourceRaids, http.MethodGet, "/raids/{id}"},
	{OpFindMissingRaidSubscriptions, ResourceRaids, http.MethodGet, "/raids/{raidId}/missingSubscriptions"},
	{OpNotifyMissingRaidSubscriptions, ResourceRaids, http.MethodPost, "/raids/{raidId}/missingSubscriptions/notify"},
	{OpFindRaidSubscriptions, ResourceRaids, http.MethodGet, "/raids/{raidId}/subscriptions"},
	{OpSaveRaidSubscription, ResourceRaids, http.MethodPost, "/raids/{raidId}/subscriptions"},

	{OpFindAllUserCharacters, ResourceUserCharacters, http.MethodGet, "/userCharacters"},

	{OpGetApplicationSettings, ResourceApplicationSettings, http.MethodGet, "/applicationSettings"},

	{OpFindAllUsers, ResourceUsers, http.MethodGet, "/users"},
	{OpFindUserCharacters, ResourceUsers, http.MethodGet, "/users/{userId}/characters"},
	{OpSaveUserCharacter, ResourceUsers, http.MethodPost, "/users/{userId}/characters"},
	{OpFindUserRosterMemberships, ResourceUsers, http.MethodGet, "/users/{userId}/rosterMemberships"},
	{OpFindUserSubscriptions, ResourceUsers, http.MethodGet, "/users/{userId}/subscriptions"},

	{OpGetCurrentUser, ResourceSession, http.MethodGet, "/session/user"},

	{OpNextReset, ResourceRaidTypes, http.MethodGet, "/raidTypes/{raidType}/nextReset"},

	{OpAddRosterMember, ResourceRoster, http.MethodPost, "/roster"},
	{OpFindAllRosterMembers, ResourceRoster, http.MethodGet, "/roster"},
	{OpRemoveRosterMember, ResourceRoster, http.MethodDelete, "/roster"},
}

var endpoints = func() map[Operation]Endpoint {
	m := make(map[Operation]Endpoint, len(catalogue))
	for _, e := range catalogue {
		m[e.Operation] = e
	}
	return m
}()

// Lookup returns the endpoint of an operation.
func Lookup(op Operation) (Endpoint, bool) {
	e, ok := endpoints[op]
	return e, ok
}

// Endpoints returns every endpoint in catalogue order.
func Endpoints() []Endpoint {
	out := make([]Endpoint, len(catalogue))
	copy(out, catalogue)
	return out
}

// Resources returns all resources in catalogue order.
func Resources() []Resource {
	var out []Resource
	seen := make(map[Resource]bool)
	for _, e := range catalogue {
		if !seen[e.Resource] {
			seen[e.Resource] = true
			out = append(out, e.Resource)
		}
	}
	return out
}

// Operations returns the operations of a resource in catalogue order.
func Operations(r Resource) []Operation {
	var out []Operation
	for _, e := range catalogue {
		if e.Resource == r {
			out = append(out, e.Operation)
		}
	}
	return out
}

type validator interface {
	Validate() error
}

// Expand fills the path placeholders in order with args, percent-encoding each one.
func (e Endpoint) Expand(args ...any) (string, error) {
	var b strings.Builder
	rest := e.Path
	i := 0
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return "", fmt.Errorf("%s: unterminated placeholder in %q", e.Operation, e.Path)
		}
		end += start
		if i >= len(args) {
			return "", fmt.Errorf("%s: missing value for %s", e.Operation, rest[start:end+1])
		}
		arg := args[i]
		if v, ok := arg.(validator); ok {
			if err := v.Validate(); err != nil {
				return "", fmt.Errorf("%s: %w", e.Operation, err)
			}
		}
		b.WriteString(rest[:start])
		b.WriteString(url.PathEscape(fmt.Sprint(arg)))
		rest = rest[end+1:]
		i++
	}
	if i != len(args) {
		return "", fmt.Errorf("%s: expected %d path values, got %d", e.Operation, i, len(args))
	}
	return b.String(), nil
}
