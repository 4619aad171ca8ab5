package gotest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-s-tayler/xunit/types"
)

// collectingSink gathers messages for parser assertions.
type collectingSink struct {
	messages []types.Message
	stop     bool
	finished chan struct{}
}

func newCollectingSink() *collectingSink {
	return &collectingSink{finished: make(chan struct{})}
}

func (c *collectingSink) OnMessage(msg types.Message) bool {
	c.messages = append(c.messages, msg)
	return !c.stop
}

func (c *collectingSink) Finished() <-chan struct{} { return c.finished }

const passFailStream = `{"Action":"run","Package":"example.com/m","Test":"TestPass"}
{"Action":"output","Package":"example.com/m","Test":"TestPass","Output":"=== RUN   TestPass\n"}
{"Action":"pass","Package":"example.com/m","Test":"TestPass","Elapsed":0.25}
{"Action":"run","Package":"example.com/m","Test":"TestFail"}
{"Action":"output","Package":"example.com/m","Test":"TestFail","Output":"    main_test.go:10: boom\n"}
{"Action":"fail","Package":"example.com/m","Test":"TestFail","Elapsed":0.5}
{"Action":"run","Package":"example.com/m","Test":"TestSkip"}
{"Action":"output","Package":"example.com/m","Test":"TestSkip","Output":"    main_test.go:20: not today\n"}
{"Action":"skip","Package":"example.com/m","Test":"TestSkip","Elapsed":0}
{"Action":"fail","Package":"example.com/m","Elapsed":1.0}
`

func TestStreamEvents_LifecycleMessages(t *testing.T) {
	sink := newCollectingSink()
	var tally packageTally

	cont := streamEvents("mod-a", strings.NewReader(passFailStream), sink, &tally)
	assert.True(t, cont)

	assert.Equal(t, 3, tally.total)
	assert.Equal(t, 1, tally.failed)
	assert.Equal(t, 1, tally.skipped)
	assert.Equal(t, 0, tally.errored)

	var starts, finishes int
	for _, msg := range sink.messages {
		switch m := msg.(type) {
		case types.TestStarting:
			starts++
			assert.Equal(t, "mod-a", m.Module)
		case types.TestFinished:
			finishes++
			switch m.Test {
			case "TestPass":
				assert.Equal(t, types.OutcomePass, m.Outcome)
				assert.Empty(t, m.Failure)
			case "TestFail":
				assert.Equal(t, types.OutcomeFail, m.Outcome)
				assert.Contains(t, m.Failure, "boom")
			case "TestSkip":
				assert.Equal(t, types.OutcomeSkip, m.Outcome)
				assert.Contains(t, m.Output, "not today")
			}
		}
	}
	assert.Equal(t, 3, starts)
	assert.Equal(t, 3, finishes)
}

func TestStreamEvents_PackageLevelFailureCountsAsErrored(t *testing.T) {
	stream := `{"Action":"output","Package":"example.com/m","Output":"panic: broken\n"}
{"Action":"fail","Package":"example.com/m","Elapsed":0.1}
`
	sink := newCollectingSink()
	var tally packageTally

	streamEvents("mod-a", strings.NewReader(stream), sink, &tally)

	assert.Equal(t, 1, tally.errored, "a failing package with no failing test is an engine error")
	assert.Equal(t, 1, tally.total)
}

func TestStreamEvents_IgnoresNonJSONLines(t *testing.T) {
	stream := "not json at all\n" +
		`{"Action":"run","Package":"example.com/m","Test":"TestOne"}` + "\n" +
		`{"Action":"pass","Package":"example.com/m","Test":"TestOne","Elapsed":0.1}` + "\n"

	sink := newCollectingSink()
	var tally packageTally

	streamEvents("mod-a", strings.NewReader(stream), sink, &tally)
	assert.Equal(t, 1, tally.total)
	assert.Equal(t, 0, tally.failed)
}

func TestStreamEvents_SinkCancellation(t *testing.T) {
	sink := newCollectingSink()
	sink.stop = true
	var tally packageTally

	cont := streamEvents("mod-a", strings.NewReader(passFailStream), sink, &tally)
	assert.False(t, cont, "a refusing sink should be reported to the caller")
}

func TestListEvents(t *testing.T) {
	out := []byte(`{"Action":"output","Package":"example.com/m","Output":"TestAlpha\n"}
{"Action":"output","Package":"example.com/m","Output":"ok  \texample.com/m\t0.002s\n"}
{"Action":"pass","Package":"example.com/m","Elapsed":0.002}
`)
	events := listEvents(out)
	require.Len(t, events, 2, "only output events carry listing lines")
	assert.Equal(t, "TestAlpha\n", events[0].Output)
}

func TestRunPattern(t *testing.T) {
	assert.Equal(t, "^(TestOne)$", runPattern([]string{"TestOne"}))
	assert.Equal(t, "^(TestOne|TestTwo)$", runPattern([]string{"TestOne", "TestTwo"}))
	assert.Equal(t, `^(Test\(odd\))$`, runPattern([]string{"Test(odd)"}), "metacharacters must be quoted")
}

func TestCaseRoundTrip(t *testing.T) {
	original := Case{Pkg: "example.com/m/sub", Test: "TestRoundTrip"}

	data, err := encodeCase(original)
	require.NoError(t, err)

	back, err := decodeCase(data)
	require.NoError(t, err)
	assert.Equal(t, original, back)
	assert.Equal(t, "TestRoundTrip", back.Name())
}

func TestDecodeCase_RejectsEmptyName(t *testing.T) {
	data, err := encodeCase(Case{Pkg: "example.com/m"})
	require.NoError(t, err)

	_, err = decodeCase(data)
	assert.Error(t, err)
}

func TestDecodeCase_RejectsGarbage(t *testing.T) {
	_, err := decodeCase([]byte("definitely not msgpack"))
	assert.Error(t, err)
}

func TestTestNamePattern(t *testing.T) {
	assert.True(t, testNamePattern.MatchString("TestFoo"))
	assert.True(t, testNamePattern.MatchString("FuzzParse"))
	assert.False(t, testNamePattern.MatchString("ok  \texample.com/m\t0.002s"))
	assert.False(t, testNamePattern.MatchString("helperFunc"))
}
