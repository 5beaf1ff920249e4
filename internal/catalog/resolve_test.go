package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/borgspace/internal/errors"
	"github.com/rileyhilliard/borgspace/internal/spec"
)

var testEnv = spec.Env{Hostname: "box1", Username: "alice"}

func names(resolutions []Resolution) []string {
	out := make([]string, 0, len(resolutions))
	for _, r := range resolutions {
		out = append(out, r.Name)
	}
	return out
}

func TestResolveAdHocSpec(t *testing.T) {
	c := New(nil, "")

	got, err := c.Resolve("home@media~backup", testEnv)
	require.NoError(t, err)
	assert.Equal(t, []string{"home@media~backup"}, names(got))
}

func TestResolveAdHocDefaults(t *testing.T) {
	c := New(nil, "")

	got, err := c.Resolve("home", testEnv)
	require.NoError(t, err)
	assert.Equal(t, []string{"home@box1~alice"}, names(got))
}

func TestResolveGroup(t *testing.T) {
	c := New(map[string][]string{
		"all": {"home@media", "root@media", "home"},
	}, "")

	got, err := c.Resolve("all", testEnv)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"home@media~alice",
		"root@media~alice",
		"home@box1~alice",
	}, names(got), "declaration order is preserved")
}

func TestResolveGroupNamesAreCaseSensitive(t *testing.T) {
	c := New(map[string][]string{
		"Work": {"home@office"},
	}, "")

	got, err := c.Resolve("Work", testEnv)
	require.NoError(t, err)
	assert.Equal(t, []string{"home@office~alice"}, names(got),
		"a mixed-case request expands its group, not an ad-hoc spec")

	// The lowercase spelling names no group and falls through to an
	// ad-hoc spec of that name.
	got, err = c.Resolve("work", testEnv)
	require.NoError(t, err)
	assert.Equal(t, []string{"work@box1~alice"}, names(got))
}

func TestResolveTransitiveGroups(t *testing.T) {
	c := New(map[string][]string{
		"servers":  {"web@srv1", "db@srv2"},
		"laptops":  {"home@air", "home@pro"},
		"everyone": {"servers", "laptops", "home"},
	}, "")

	got, err := c.Resolve("everyone", testEnv)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"web@srv1~alice",
		"db@srv2~alice",
		"home@air~alice",
		"home@pro~alice",
		"home@box1~alice",
	}, names(got))
}

func TestResolveDeduplicates(t *testing.T) {
	c := New(map[string][]string{
		"a":    {"home@media", "root@media"},
		"b":    {"root@media", "extra@media"},
		"both": {"a", "b", "home@media"},
	}, "")

	got, err := c.Resolve("both", testEnv)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"home@media~alice",
		"root@media~alice",
		"extra@media~alice",
	}, names(got), "first occurrence wins")
}

func TestResolveDedupAcrossEquivalentSpecs(t *testing.T) {
	// Two different spellings of the same concrete identity.
	c := New(map[string][]string{
		"g": {"home", "home@box1~alice"},
	}, "")

	got, err := c.Resolve("g", testEnv)
	require.NoError(t, err)
	assert.Equal(t, []string{"home@box1~alice"}, names(got))
}

func TestResolveDirectCycle(t *testing.T) {
	c := New(map[string][]string{
		"loop": {"loop"},
	}, "")

	_, err := c.Resolve("loop", testEnv)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCycle))
	assert.Contains(t, err.Error(), "loop -> loop")
}

func TestResolveTransitiveCycle(t *testing.T) {
	c := New(map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a", "home@media"},
	}, "")

	_, err := c.Resolve("a", testEnv)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCycle))
	assert.Contains(t, err.Error(), "a -> b -> c -> a")
}

func TestResolveDiamondIsNotACycle(t *testing.T) {
	// The same group reached twice along different paths is fine;
	// only in-progress groups count as cycles.
	c := New(map[string][]string{
		"shared": {"home@media"},
		"left":   {"shared", "web@srv1"},
		"right":  {"shared", "db@srv2"},
		"top":    {"left", "right"},
	}, "")

	got, err := c.Resolve("top", testEnv)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"home@media~alice",
		"web@srv1~alice",
		"db@srv2~alice",
	}, names(got))
}

func TestResolveEmptyGroupIsItsOwnSpec(t *testing.T) {
	c := New(map[string][]string{
		"home": {},
	}, "")

	got, err := c.Resolve("home", testEnv)
	require.NoError(t, err)
	assert.Equal(t, []string{"home@box1~alice"}, names(got))
}

func TestResolveDefaultRequest(t *testing.T) {
	c := New(map[string][]string{
		"all": {"home@media", "root@media"},
	}, "all")

	got, err := c.Resolve("", testEnv)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestResolveNoDefault(t *testing.T) {
	c := New(nil, "")

	_, err := c.Resolve("", testEnv)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDefault))
}

func TestResolveBadRequestNamesTheRequest(t *testing.T) {
	c := New(map[string][]string{"all": {"home@media"}}, "")

	_, err := c.Resolve("no/such!name", testEnv)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrGroup))
	assert.Contains(t, err.Error(), "no/such!name")
}

func TestResolveBadGroupEntry(t *testing.T) {
	c := New(map[string][]string{"all": {"ok@media", "bro ken"}}, "")

	_, err := c.Resolve("all", testEnv)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSpec))
	assert.Contains(t, err.Error(), "bro ken")
}

func TestResolveFailureDoesNotPoisonOtherRequests(t *testing.T) {
	c := New(map[string][]string{
		"good": {"home@media"},
		"bad":  {"bad"},
	}, "")

	_, err := c.Resolve("bad", testEnv)
	require.Error(t, err)

	got, err := c.Resolve("good", testEnv)
	require.NoError(t, err)
	assert.Equal(t, []string{"home@media~alice"}, names(got))
}

func TestLookupAndNames(t *testing.T) {
	c := New(map[string][]string{
		"b": {"x@h"},
		"a": {"y@h"},
	}, "")

	entries, ok := c.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"y@h"}, entries)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b"}, c.Names())
}
