package firewall

// Phrase categories reported in verdicts.
const (
	CategoryDirectiveAdvice   = "directive-advice"
	CategoryOutcomePrediction = "outcome-prediction"
	CategoryLegalConclusion   = "legal-conclusion"
)

// DefaultForbidden returns the standard directive-advice phrase table.
//
// Replacements are written to splice into a sentence where the phrase stood:
// "you should argue X" becomes "one line of argument sometimes examined is X".
// They read stiffly on occasion; that is the cost of a fixed table and is
// preferred to leaking advice.
func DefaultForbidden() []PhraseRule {
	return []PhraseRule{
		{
			Phrase:      "you should argue",
			Category:    CategoryDirectiveAdvice,
			Replacement: "one line of argument sometimes examined is",
		},
		{
			Phrase:      "you should file",
			Category:    CategoryDirectiveAdvice,
			Replacement: "a step sometimes taken at this stage is filing",
		},
		{
			Phrase:      "you should plead",
			Category:    CategoryDirectiveAdvice,
			Replacement: "plea decisions are typically weighed with counsel, including whether to plead",
		},
		{
			Phrase:      "you should refuse",
			Category:    CategoryDirectiveAdvice,
			Replacement: "one option people weigh is declining",
		},
		{
			Phrase:      "you should sign",
			Category:    CategoryDirectiveAdvice,
			Replacement: "the decision whether to sign is typically reviewed with counsel regarding",
		},
		{
			Phrase:      "you should accept",
			Category:    CategoryDirectiveAdvice,
			Replacement: "some people in similar situations weigh accepting",
		},
		{
			Phrase:      "i advise you to",
			Category:    CategoryDirectiveAdvice,
			Replacement: "in general terms, people in similar situations sometimes",
		},
		{
			Phrase:      "i recommend that you",
			Category:    CategoryDirectiveAdvice,
			Replacement: "one commonly discussed approach is to",
		},
		{
			Phrase:      "my advice is",
			Category:    CategoryDirectiveAdvice,
			Replacement: "one general observation is",
		},
		{
			Phrase:      "your best option is",
			Category:    CategoryDirectiveAdvice,
			Replacement: "one option sometimes discussed is",
		},
		{
			Phrase:      "the best thing to do is",
			Category:    CategoryDirectiveAdvice,
			Replacement: "one thing people in similar situations consider is",
		},
	}
}

// DefaultConclusions returns the standard conclusion-indicator table.
func DefaultConclusions() []PhraseRule {
	return []PhraseRule{
		{
			Phrase:      "you will win",
			Category:    CategoryOutcomePrediction,
			Replacement: "outcomes in similar cases have varied",
		},
		{
			Phrase:      "you will lose",
			Category:    CategoryOutcomePrediction,
			Replacement: "outcomes in similar cases have varied",
		},
		{
			Phrase:      "you have a strong case",
			Category:    CategoryOutcomePrediction,
			Replacement: "similar fact patterns have been decided both ways",
		},
		{
			Phrase:      "you have no case",
			Category:    CategoryOutcomePrediction,
			Replacement: "similar fact patterns have been decided both ways",
		},
		{
			Phrase:      "the court will rule",
			Category:    CategoryOutcomePrediction,
			Replacement: "how a court views this depends on the full record, and courts have ruled in varying ways",
		},
		{
			Phrase:      "this is clearly illegal",
			Category:    CategoryLegalConclusion,
			Replacement: "courts have scrutinized conduct like this closely",
		},
		{
			Phrase:      "they violated your rights",
			Category:    CategoryLegalConclusion,
			Replacement: "whether conduct like this crosses a constitutional line is a fact-specific question",
		},
		{
			Phrase:      "that was an illegal search",
			Category:    CategoryLegalConclusion,
			Replacement: "the lawfulness of a search like that turns on the specific circumstances",
		},
	}
}
