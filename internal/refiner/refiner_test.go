package refiner

import (
	"context"
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleURLs = []string{
	"https://example.com/page?user=admin&session=123",
	"http://test.com?id=abc&user=guest",
	"https://example.com/page?user=admin&session=123",
	"http://test.com/other_path?id=abc&user=guest",
	"invalid-url",
	"",
}

func TestProcess_ReplaceMode(t *testing.T) {
	result, err := Process(slices.Values(sampleURLs), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/page?user=FUZZ&session=FUZZ",
		"http://test.com?id=FUZZ&user=FUZZ",
		"http://test.com/other_path?id=FUZZ&user=FUZZ",
	}, result.Data)
	assert.Equal(t, 6, result.Stats.TotalInput)
	assert.Equal(t, 3, result.Stats.TotalOutput)
	assert.Equal(t, 3, result.Stats.DuplicatesRemoved)
	assert.Equal(t, 2, result.Stats.InvalidDropped)
	assert.Equal(t, 1, result.Stats.DuplicateDropped)
}

func TestProcess_AppendMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeAppend
	cfg.Value = "_appended"

	result, err := Process(slices.Values(sampleURLs), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/page?user=admin_appended&session=123_appended",
		"http://test.com?id=abc_appended&user=guest_appended",
		"http://test.com/other_path?id=abc_appended&user=guest_appended",
	}, result.Data)
	assert.Equal(t, 3, result.Stats.TotalOutput)
}

func TestProcess_ExcludedParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExcludeParams = []string{"session", "id"}

	result, err := Process(slices.Values(sampleURLs), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/page?user=FUZZ&session=123",
		"http://test.com?id=abc&user=FUZZ",
		"http://test.com/other_path?id=abc&user=FUZZ",
	}, result.Data)
}

func TestProcess_IgnorePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IgnorePath = true

	result, err := Process(slices.Values(sampleURLs), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/page?user=FUZZ&session=FUZZ",
		"http://test.com?id=FUZZ&user=FUZZ",
	}, result.Data)
	assert.Equal(t, Stats{
		TotalInput:        6,
		TotalOutput:       2,
		DuplicatesRemoved: 4,
		InvalidDropped:    2,
		DuplicateDropped:  2,
	}, result.Stats)
}

func TestProcess_EmptyInput(t *testing.T) {
	result, err := Process(slices.Values([]string{}), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{}, result.Data)
	assert.Equal(t, Stats{}, result.Stats)
}

func TestProcess_MultiValuedParams(t *testing.T) {
	input := []string{"http://a.com/?a=1&b=2&a=3"}

	testCases := []struct {
		name     string
		mode     Mode
		value    string
		exclude  []string
		expected string
	}{
		{"replace collapses repeated names", ModeReplace, "FUZZ", nil, "http://a.com/?a=FUZZ&b=FUZZ"},
		{"append keeps multiplicity and order", ModeAppend, "_x", nil, "http://a.com/?a=1_x&a=3_x&b=2_x"},
		{"excluded repeated name untouched", ModeReplace, "FUZZ", []string{"a"}, "http://a.com/?a=1&a=3&b=FUZZ"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Mode: tc.mode, Value: tc.value, ExcludeParams: tc.exclude}
			result, err := Process(slices.Values(input), cfg)
			require.NoError(t, err)
			require.Len(t, result.Data, 1)
			assert.Equal(t, tc.expected, result.Data[0])
		})
	}
}

func TestProcess_Serialization(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		mode     Mode
		value    string
		expected string
	}{
		{"blank values kept", "http://a.com/?a=&b", ModeAppend, "X", "http://a.com/?a=X&b=X"},
		{"fragment preserved", "http://a.com/p?x=1#frag", ModeReplace, "FUZZ", "http://a.com/p?x=FUZZ#frag"},
		{"userinfo preserved", "http://u:p@a.com/?x=1", ModeReplace, "FUZZ", "http://u:p@a.com/?x=FUZZ"},
		{"port preserved", "http://a.com:8080/x?y=1", ModeReplace, "1", "http://a.com:8080/x?y=1"},
		{"no query", "http://a.com/x", ModeReplace, "FUZZ", "http://a.com/x"},
		{"bare question mark dropped", "http://a.com/x?", ModeReplace, "FUZZ", "http://a.com/x"},
		{"reserved characters escaped", "http://a.com/?q=a%20b", ModeAppend, "/&", "http://a.com/?q=a+b%2F%26"},
		{"plus decodes to space", "http://a.com/?q=a+b", ModeAppend, "", "http://a.com/?q=a+b"},
		{"malformed escape kept literally", "http://a.com/?q=%zz", ModeAppend, "1", "http://a.com/?q=%25zz1"},
		{"value with spaces", "https://a.com/s?q=1", ModeReplace, "' OR 1=1", "https://a.com/s?q=%27+OR+1%3D1"},
		{"path copied verbatim", "http://a.com/a b?x=1", ModeReplace, "F", "http://a.com/a b?x=F"},
		{"fragment copied verbatim", "http://a.com/?x=1#frag ment", ModeReplace, "F", "http://a.com/?x=F#frag ment"},
		{"stray percent in path", "http://a.com/%zz?x=1", ModeReplace, "F", "http://a.com/%zz?x=F"},
		{"stray percent in fragment", "http://a.com/#%zz", ModeReplace, "F", "http://a.com/#%zz"},
		{"escaped path not normalized", "http://a.com/%7Ea%2fb?x=1", ModeReplace, "F", "http://a.com/%7Ea%2fb?x=F"},
		{"path params preserved", "http://a.com/p;v=1?x=1", ModeReplace, "F", "http://a.com/p;v=1?x=F"},
		{"scheme lower-cased", "HTTPS://Example.COM/P?x=1", ModeReplace, "F", "https://Example.COM/P?x=F"},
		{"empty fragment dropped", "http://a.com/x?y=1#", ModeReplace, "F", "http://a.com/x?y=F"},
		{"fragment kept when query empties", "http://a.com/x?#top", ModeReplace, "F", "http://a.com/x#top"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Mode: tc.mode, Value: tc.value}
			result, err := Process(slices.Values([]string{tc.input}), cfg)
			require.NoError(t, err)
			require.Len(t, result.Data, 1)
			assert.Equal(t, tc.expected, result.Data[0])
		})
	}
}

func TestProcess_FirstOccurrenceWins(t *testing.T) {
	input := []string{
		"http://a.com/p?x=1#top",
		"http://a.com/p?x=2#bottom",
		"http://a.com/p?y=1",
		"http://a.com/p?x=3&x=4",
	}

	result, err := Process(slices.Values(input), Config{Mode: ModeAppend, Value: ""})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"http://a.com/p?x=1#top",
		"http://a.com/p?y=1",
	}, result.Data)
	assert.Equal(t, 2, result.Stats.DuplicateDropped)
}

func TestProcess_IdentityInvariant(t *testing.T) {
	inputs := [][]string{
		sampleURLs,
		{},
		{"", "", ""},
		{"http://a.com", "http://a.com", "http://a.com/?x=1", "mailto:me@a.com", "http://b.com/?x=1"},
	}

	for _, input := range inputs {
		for _, ignorePath := range []bool{false, true} {
			cfg := DefaultConfig()
			cfg.IgnorePath = ignorePath
			result, err := Process(slices.Values(input), cfg)
			require.NoError(t, err)

			s := result.Stats
			assert.Equal(t, s.TotalInput, s.TotalOutput+s.DuplicatesRemoved)
			assert.Equal(t, s.DuplicatesRemoved, s.InvalidDropped+s.DuplicateDropped)
			assert.GreaterOrEqual(t, s.DuplicatesRemoved, 0)
			assert.Len(t, result.Data, s.TotalOutput)
		}
	}
}

func TestProcess_IdempotentOnOwnOutput(t *testing.T) {
	for _, mode := range []Mode{ModeReplace, ModeAppend} {
		cfg := Config{Mode: mode, Value: "FUZZ"}
		if mode == ModeAppend {
			cfg.Value = ""
		}

		first, err := Process(slices.Values(sampleURLs), cfg)
		require.NoError(t, err)

		second, err := Process(slices.Values(first.Data), Config{Mode: ModeReplace, Value: "FUZZ"})
		require.NoError(t, err)

		assert.Zero(t, second.Stats.DuplicatesRemoved, mode.String())
		if mode == ModeReplace {
			assert.Equal(t, first.Data, second.Data)
		}
	}
}

func TestProcess_LazySequence(t *testing.T) {
	pulled := 0
	var seq iter.Seq[string] = func(yield func(string) bool) {
		for _, u := range sampleURLs {
			pulled++
			if !yield(u) {
				return
			}
		}
	}

	result, err := Process(seq, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, len(sampleURLs), pulled)
	assert.Equal(t, 3, result.Stats.TotalOutput)
}

func TestProcess_Observer(t *testing.T) {
	var events []Event
	_, err := Process(slices.Values(sampleURLs), DefaultConfig(), WithObserver(func(ev Event) {
		events = append(events, ev)
	}))
	require.NoError(t, err)
	require.Len(t, events, len(sampleURLs))

	outcomes := make([]Outcome, len(events))
	for i, ev := range events {
		assert.Equal(t, i, ev.Index)
		assert.Equal(t, sampleURLs[i], ev.Raw)
		outcomes[i] = ev.Outcome
	}
	assert.Equal(t, []Outcome{OutcomeKept, OutcomeKept, OutcomeDuplicate, OutcomeKept, OutcomeInvalid, OutcomeInvalid}, outcomes)
	assert.Equal(t, "https://example.com/page?user=FUZZ&session=FUZZ", events[0].Refined)
	assert.Equal(t, "example.com/page?session&user", events[0].Key)
	assert.Empty(t, events[2].Refined)
	assert.Empty(t, events[4].Key)
}

func TestProcessContext_CancelledBetweenItems(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result, err := ProcessContext(ctx, slices.Values(sampleURLs), DefaultConfig(), WithObserver(func(ev Event) {
		if ev.Index == 1 {
			cancel()
		}
	}))

	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Stats.TotalInput)
	assert.Equal(t, 2, result.Stats.TotalOutput)
	assert.Zero(t, result.Stats.DuplicatesRemoved)
	assert.Len(t, result.Data, 2)
}

func TestProcess_UnknownModeFailsFast(t *testing.T) {
	result, err := Process(slices.Values(sampleURLs), Config{Mode: Mode(42), Value: "x"})

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrUnknownMode))
}
