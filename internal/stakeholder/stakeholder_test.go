package stakeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obessu/eventflow/internal/model"
)

func stakeholderEvent(id, institution, theme string, papers []string, status model.Status) *model.Event {
	return &model.Event{
		ID: id,
		Analysis: model.AnalysisResult{
			EventName:        "Event " + id,
			Institution:      institution,
			Theme:            theme,
			LinkedActivities: papers,
		},
		FollowUp: model.FollowUpState{Status: status},
	}
}

func TestAggregateGroupsAndSorts(t *testing.T) {
	events := []*model.Event{
		stakeholderEvent("1", "CEDEFOP", "VET", nil, model.StatusToRespond),
		stakeholderEvent("2", "European Commission", "Digital", nil, model.StatusToRespond),
		stakeholderEvent("3", "CEDEFOP", "Inclusion", nil, model.StatusCompleted),
	}
	groups := Aggregate(events)

	require.Len(t, groups, 2)
	assert.Equal(t, "CEDEFOP", groups[0].Name)
	assert.Len(t, groups[0].AllEvents, 2)
	assert.Equal(t, "European Commission", groups[1].Name)
	assert.Len(t, groups[1].AllEvents, 1)
}

func TestAggregateTieKeepsFirstSeenOrder(t *testing.T) {
	events := []*model.Event{
		stakeholderEvent("1", "Beta", "VET", nil, model.StatusToRespond),
		stakeholderEvent("2", "Alpha", "VET", nil, model.StatusToRespond),
		stakeholderEvent("3", "Gamma", "VET", nil, model.StatusToRespond),
	}
	groups := Aggregate(events)

	require.Len(t, groups, 3)
	assert.Equal(t, "Beta", groups[0].Name)
	assert.Equal(t, "Alpha", groups[1].Name)
	assert.Equal(t, "Gamma", groups[2].Name)
}

func TestAggregateTrimsAndFallsBackToUnknown(t *testing.T) {
	events := []*model.Event{
		stakeholderEvent("1", "  CEDEFOP  ", "VET", nil, model.StatusToRespond),
		stakeholderEvent("2", "CEDEFOP", "VET", nil, model.StatusToRespond),
		stakeholderEvent("3", "", "VET", nil, model.StatusToRespond),
		stakeholderEvent("4", "   ", "VET", nil, model.StatusToRespond),
	}
	groups := Aggregate(events)

	require.Len(t, groups, 2)
	assert.Equal(t, "CEDEFOP", groups[0].Name)
	assert.Len(t, groups[0].AllEvents, 2)
	assert.Equal(t, UnknownStakeholder, groups[1].Name)
	assert.Len(t, groups[1].AllEvents, 2)
}

func TestAggregateIsCaseSensitive(t *testing.T) {
	events := []*model.Event{
		stakeholderEvent("1", "Inst", "VET", nil, model.StatusToRespond),
		stakeholderEvent("2", "inst", "VET", nil, model.StatusToRespond),
	}
	groups := Aggregate(events)
	require.Len(t, groups, 2)
}

func TestAggregateDeduplicatesThemesAndPapers(t *testing.T) {
	events := []*model.Event{
		stakeholderEvent("1", "CEDEFOP", "VET", []string{"Position Paper A", "Position Paper B"}, model.StatusToRespond),
		stakeholderEvent("2", "CEDEFOP", "VET", []string{"Position Paper B", "Position Paper C"}, model.StatusToRespond),
		stakeholderEvent("3", "CEDEFOP", "Digital", nil, model.StatusToRespond),
	}
	groups := Aggregate(events)

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"VET", "Digital"}, groups[0].Themes)
	assert.Equal(t, []string{"Position Paper A", "Position Paper B", "Position Paper C"}, groups[0].Papers)
}

func TestAggregateCompletedSubset(t *testing.T) {
	events := []*model.Event{
		stakeholderEvent("1", "CEDEFOP", "VET", nil, model.StatusToRespond),
		stakeholderEvent("2", "CEDEFOP", "VET", nil, model.StatusCompleted),
		stakeholderEvent("3", "CEDEFOP", "VET", nil, model.StatusCompletedFU),
		stakeholderEvent("4", "CEDEFOP", "VET", nil, model.StatusNotRelevant),
	}
	groups := Aggregate(events)

	require.Len(t, groups, 1)
	assert.Len(t, groups[0].AllEvents, 4)
	require.Len(t, groups[0].CompletedEvents, 3)
	assert.Equal(t, "2", groups[0].CompletedEvents[0].ID)
	assert.Equal(t, "3", groups[0].CompletedEvents[1].ID)
	assert.Equal(t, "4", groups[0].CompletedEvents[2].ID)
}

func TestAggregateEmptyInput(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}
