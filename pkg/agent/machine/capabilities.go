package machine

import (
	"context"

	"portal-assistant-be/pkg/agent/state"
)

// capabilitiesAgent serves the static what-can-you-do card in the
// detected language, with freshly grounded suggestions.
func (e *Engine) capabilitiesAgent(ctx context.Context, s *state.State) {
	isUrdu := s.DetectedLanguage.IsUrdu()

	var (
		title    string
		subtitle string
		features []state.Feature
		cta      string
	)

	if isUrdu {
		title = "Hi! Main hoon MIRA"
		subtitle = "Main aapki Management Portal ka har kaam asaan bananay mein madad kar sakti hoon."
		features = []state.Feature{
			{Title: "Aam Sawalaat", Description: "Greetings ho ya aam guftagu, main hamesha hazir hoon.", Icon: "👋"},
			{Title: "Step-by-Step Tutorials", Description: "Add Region ho ya Distributor setup, har kaam ki tasweeri tutorial mujh se lain.", Icon: "📸"},
			{Title: "Easy Explaination", Description: "Agar koi step mushkil lagay, bas mujh se poochain aur main usay asaan alfaz mein bataungi.", Icon: "💡"},
			{Title: "Portal Ki Maloomat", Description: "Kaunsi cheez kahan hai? Main portal ke har kone se waqif hoon.", Icon: "🗺️"},
			{Title: "Urdu aur English", Description: "Main aap se English aur Roman-Urdu dono mein baat kar sakti hoon.", Icon: "🗣️"},
		}
		cta = "Aap kya seekhna chahte hain?"
	} else {
		title = "I'm MIRA, Your Portal Guide"
		subtitle = "I'm here to make managing your portal as simple as having a conversation."
		features = []state.Feature{
			{Title: "General Assistance", Description: "From a friendly greeting to general questions, I'm always ready to chat.", Icon: "👋"},
			{Title: "Visual Walkthroughs", Description: "Need to add a Region or set up a Distributor? I'll show you exactly how with pictures.", Icon: "📸"},
			{Title: "Crystal Clear Clarity", Description: "Confused about a step? Just ask! I'll break it down into even simpler English for you.", Icon: "💡"},
			{Title: "Portal Navigation", Description: "I know where every page is located. Just ask me where to find something.", Icon: "🗺️"},
			{Title: "Bilingual Support", Description: "Whether you prefer English or Roman-Urdu, I've got you covered.", Icon: "🗣️"},
		}
		cta = "What would you like to learn today?"
	}

	suggestions := e.suggestions.Generate(ctx, s.UserQuery, state.IntentCapabilities, s.ConversationHistory, s.DetectedLanguage)

	s.Response = &state.Response{
		Type:             state.ResponseCapabilities,
		Title:            title,
		Content:          subtitle,
		Features:         features,
		FooterCTA:        cta,
		SuggestedActions: suggestions,
		IsUrdu:           isUrdu,
	}
	s.Suggestions = suggestions
	s.Visit(state.NodeCapabilitiesAgent)
}
