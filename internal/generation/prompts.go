package generation

import (
	"fmt"
	"strings"

	"story-engine/internal/models"
)

// Системные промты трех операций генерации. Каждый требует строгий JSON
// без markdown-ограждений; форма ответа проверяется в internal/schemas.

const anchorSystemPrompt = `You are the story architect for a persistent narrative world.
Design the skeleton of a new story arc: exactly three anchor beats that bound the arc.
Anchor 1 (beatIndex 0) opens the arc, anchor 2 (beatIndex 7) is the catalyst turning point, anchor 3 (beatIndex 14) resolves the arc.
Respond with a single JSON object, no markdown fences, of the form:
{"anchors":[{"beatIndex":0,"beatName":"...","description":"...","worldDirectives":["..."],"majorEvents":["..."],"emergentStorylines":["..."]},{"beatIndex":7,...},{"beatIndex":14,...}],"arcDescription":"..."}
Return exactly three anchors with beatIndex values 0, 7 and 14.`

const dynamicBeatSystemPrompt = `You are the story director for a persistent narrative world.
Write the next beat of the current story arc. It must follow naturally from the previous beats, steer the story toward the upcoming anchor beat, and react to the recent world events.
Respond with a single JSON object, no markdown fences, of the form:
{"beatName":"...","description":"...","worldDirectives":["..."],"emergingConflicts":["..."],"environmentalChanges":["..."] or null}`

const summarySystemPrompt = `You are the story chronicler for a persistent narrative world.
Summarize the completed story arc based on its beats, capturing how the world changed.
Respond with a single JSON object, no markdown fences, of the form:
{"summary":"...","majorChanges":["..."],"affectedRegions":["..."],"thematicProgression":"...","futureImplications":["..."]}`

// buildAnchorUserInput собирает пользовательскую часть промта генерации якорей.
func buildAnchorUserInput(worldName, worldDescription, storyIdea string, previousArcSummaries []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "World: %s\n", worldName)
	fmt.Fprintf(&b, "World description: %s\n", worldDescription)
	if strings.TrimSpace(storyIdea) != "" {
		fmt.Fprintf(&b, "Story idea: %s\n", storyIdea)
	}
	if len(previousArcSummaries) > 0 {
		b.WriteString("\nPrevious arc summaries (oldest first):\n")
		for i, summary := range previousArcSummaries {
			fmt.Fprintf(&b, "%d. %s\n", i+1, summary)
		}
	}
	return b.String()
}

// buildDynamicBeatUserInput собирает пользовательскую часть промта
// динамического бита: мир, целевой слот, прошедшие биты, ближайший якорь
// и недавние события.
func buildDynamicBeatUserInput(worldName, worldDescription string, targetIndex int, previousBeats []models.WorldBeat, upcomingAnchor models.WorldBeat, recentEventsText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "World: %s\n", worldName)
	fmt.Fprintf(&b, "World description: %s\n", worldDescription)
	fmt.Fprintf(&b, "Write beat %d of %d.\n", targetIndex, models.BeatsPerArc-1)

	if len(previousBeats) > 0 {
		b.WriteString("\nStory so far:\n")
		for _, beat := range previousBeats {
			fmt.Fprintf(&b, "Beat %d (%s): %s\n", beat.BeatIndex, beat.BeatName, beat.Description)
		}
	}

	fmt.Fprintf(&b, "\nUpcoming anchor at beat %d (%s): %s\n",
		upcomingAnchor.BeatIndex, upcomingAnchor.BeatName, upcomingAnchor.Description)

	if strings.TrimSpace(recentEventsText) != "" {
		fmt.Fprintf(&b, "\nRecent world events:\n%s\n", recentEventsText)
	}
	return b.String()
}

// buildSummaryUserInput собирает пользовательскую часть промта summary.
func buildSummaryUserInput(arcName, arcIdea, beatDescriptionsText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Arc name: %s\n", arcName)
	fmt.Fprintf(&b, "Arc idea: %s\n", arcIdea)
	fmt.Fprintf(&b, "\nBeats:\n%s\n", beatDescriptionsText)
	return b.String()
}
