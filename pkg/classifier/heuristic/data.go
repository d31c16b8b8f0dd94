package heuristic

import "github.com/modsentry/modsentry/pkg/domain/moderation"

// term is one weighted keyword; weight is the category score a single match
// yields before the repeat bonus.
type term struct {
	text   string
	weight float64
}

var keywordTable = map[moderation.Category][]term{
	moderation.CategoryThreat: {
		{"kill you", 0.90},
		{"hurt you", 0.85},
		{"i will find you", 0.85},
		{"watch your back", 0.70},
		{"you will regret", 0.60},
		{"beat you up", 0.80},
	},
	moderation.CategoryViolence: {
		{"murder", 0.70},
		{"stab", 0.70},
		{"shoot", 0.65},
		{"kill", 0.60},
		{"assault", 0.60},
		{"punch", 0.45},
	},
	moderation.CategoryHateSpeech: {
		{"subhuman", 0.90},
		{"go back to your country", 0.80},
		{"vermin", 0.70},
		{"your kind", 0.50},
	},
	moderation.CategoryProfanity: {
		{"fuck", 0.70},
		{"bitch", 0.70},
		{"asshole", 0.70},
		{"shit", 0.60},
		{"wtf", 0.45},
		{"damn", 0.30},
	},
	moderation.CategoryHarassment: {
		{"nobody likes you", 0.70},
		{"loser", 0.50},
		{"idiot", 0.50},
		{"pathetic", 0.50},
		{"stupid", 0.45},
		{"shut up", 0.40},
	},
	moderation.CategorySpam: {
		{"free money", 0.80},
		{"click here", 0.70},
		{"buy now", 0.65},
		{"limited offer", 0.60},
		{"guaranteed winner", 0.75},
		{"crypto giveaway", 0.80},
	},
	moderation.CategoryAdultContent: {
		{"porn", 0.80},
		{"xxx", 0.70},
		{"nude", 0.60},
		{"explicit", 0.50},
	},
	moderation.CategoryToxicity: {
		{"garbage human", 0.70},
		{"i hate you", 0.60},
		{"disgusting", 0.50},
		{"trash", 0.45},
	},
}

var regexTable = map[moderation.Category][]struct {
	pattern string
	weight  float64
}{
	moderation.CategoryThreat: {
		{`i\s+will\s+(find|hurt|kill|get|destroy)\s+`, 0.92},
		{`(gonna|going\s+to)\s+(hurt|kill|end)\s+you`, 0.90},
	},
	moderation.CategorySpam: {
		{`https?://\S+`, 0.40},
		{`\${2,}|\d+%\s*off`, 0.55},
	},
}
