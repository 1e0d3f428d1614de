package quest

import "github.com/julianstephens/dailyquest/internal/models"

// DefaultSeed is the list a fresh installation starts with.
func DefaultSeed() models.Collection {
	counter := func(id, text string, target int, unit string) models.Quest {
		return models.Quest{
			ID:      id,
			Text:    text,
			Type:    models.QuestCounter,
			Current: models.IntPtr(0),
			Target:  models.IntPtr(target),
			Unit:    unit,
		}
	}
	boolean := func(id, text string) models.Quest {
		return models.Quest{ID: id, Text: text, Type: models.QuestBoolean}
	}

	return models.Collection{
		counter("1", "Skincare and face exercises", 2, "times"),
		counter("2", "Walk 8000 steps", 8000, "steps"),
		boolean("3", "One focused hour in the evening"),
		boolean("4", "Exercise for half an hour"),
		boolean("5", "10 minute daily reset"),
		boolean("6", "Digitize today's journal"),
		boolean("7", "Read"),
		boolean("8", "In bed before midnight"),
	}
}
