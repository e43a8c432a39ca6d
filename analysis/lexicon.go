package analysis

// Static keyword tables shared by the analyzers. All tables are loaded once
// and never mutated at runtime; analyzers treat them as read-only.
//
// Single-token terms are matched on word boundaries; multi-word phrases are
// matched as substrings of the lowercased message.

type lexiconTier struct {
	weight float64
	terms  []string
}

var positiveTiers = []lexiconTier{
	{weight: 1.0, terms: []string{
		"love", "amazing", "wonderful", "fantastic", "incredible", "perfect",
		"adore", "beautiful", "best day", "so happy", "love you", "miss you so much",
		"thrilled", "ecstatic", "overjoyed",
	}},
	{weight: 0.6, terms: []string{
		"happy", "great", "awesome", "good", "glad", "excited", "fun", "sweet",
		"thank you", "thanks", "appreciate", "proud of you", "miss you",
		"cute", "lovely", "enjoyed", "can't wait", "cant wait",
	}},
	{weight: 0.3, terms: []string{
		"nice", "cool", "okay good", "fine by me", "sure thing", "sounds good",
		"haha", "lol", "lmao", "hehe", "yay", "woo", "glad to hear",
	}},
}

var negativeTiers = []lexiconTier{
	{weight: 1.0, terms: []string{
		"hate", "awful", "terrible", "horrible", "miserable", "devastated",
		"heartbroken", "can't stand", "cant stand", "worst", "disgusted",
		"furious", "despise",
	}},
	{weight: 0.6, terms: []string{
		"sad", "angry", "upset", "hurt", "annoyed", "frustrated", "disappointed",
		"lonely", "crying", "depressed", "mad at you", "sick of", "tired of this",
		"jealous", "ignored",
	}},
	{weight: 0.3, terms: []string{
		"meh", "bored", "ugh", "bummed", "not great", "worried", "stressed",
		"confused", "awkward", "weird",
	}},
}

// negationTerms flip or dampen a sentiment keyword when they appear inside
// the 4-word window preceding it.
var negationTerms = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "don't": {}, "dont": {}, "can't": {},
	"cant": {}, "won't": {}, "wont": {}, "didn't": {}, "didnt": {},
	"isn't": {}, "isnt": {}, "aren't": {}, "arent": {}, "wasn't": {},
	"wasnt": {}, "couldn't": {}, "couldnt": {}, "shouldn't": {},
	"shouldnt": {}, "wouldn't": {}, "wouldnt": {}, "ain't": {}, "aint": {},
	"hardly": {}, "barely": {}, "rarely": {}, "without": {},
}

// sarcasmMarkers are explicit phrases that flag a message as likely sarcastic,
// damping its positive keyword contributions.
var sarcasmMarkers = []string{
	"oh great", "oh wonderful", "oh perfect", "yeah right", "sure you did",
	"how original", "good for you", "oh joy", "just perfect", "thanks a lot",
	"nice going", "real mature", "wow just wow",
}

// positiveAdjectives participate in the repetition / punctuation sarcasm
// heuristics ("great great great", "amazing!!!!").
var positiveAdjectives = map[string]struct{}{
	"great": {}, "amazing": {}, "wonderful": {}, "perfect": {}, "fantastic": {},
	"awesome": {}, "lovely": {}, "brilliant": {}, "fabulous": {},
}

// passiveAggressiveTerms subtract a fixed penalty per match.
var passiveAggressiveTerms = []string{
	"i'm fine", "im fine", "it's fine", "its fine", "do whatever you want",
	"if you say so", "forget it", "never mind then", "nothing's wrong",
	"nothings wrong", "don't worry about it", "dont worry about it",
}

// passiveAggressiveDismissals are single-word brush-offs; they only count
// when the whole trimmed message is the dismissal (optionally with a period).
var passiveAggressiveDismissals = map[string]struct{}{
	"fine": {}, "whatever": {}, "ok": {}, "k": {}, "sure": {}, "fine.": {},
	"whatever.": {}, "ok.": {}, "k.": {}, "sure.": {},
}

// emojiScores maps common emoji to sentiment contributions in [-1, 1].
var emojiScores = map[string]float64{
	"😀": 0.5, "😄": 0.5, "😊": 0.6, "🥰": 0.9, "😘": 0.7,
	"❤️": 0.9, "❤": 0.9, "💕": 0.8, "💖": 0.8, "😍": 0.8, "🤗": 0.6,
	"😂": 0.4, "🤣": 0.4, "🙂": 0.3, "😉": 0.3, "👍": 0.3, "🎉": 0.6,
	"😢": -0.6, "😭": -0.7, "😞": -0.5, "😔": -0.5, "😩": -0.5,
	"😡": -0.8, "🤬": -0.9, "💔": -0.9, "😠": -0.7, "🙄": -0.4,
	"😤": -0.5, "👎": -0.4, "😒": -0.4,
}

// Toxicity tiers. A severe match marks the message toxic regardless of score.
var toxicitySevere = []string{
	"kill yourself", "kys", "i hate you", "go to hell", "you're worthless",
	"youre worthless", "piece of shit", "you disgust me", "i wish you were dead",
}

var toxicityStrong = []string{
	"fuck you", "screw you", "shut up", "shut the fuck up", "stfu",
	"you're pathetic", "youre pathetic", "idiot", "stupid", "loser",
	"you're useless", "youre useless", "moron",
}

var toxicityModerate = []string{
	"hate", "annoying", "dumb", "ridiculous", "selfish", "liar", "lazy",
	"childish", "pathetic", "grow up",
}

var toxicityMild = []string{
	"whatever", "ugh", "seriously?", "wow ok", "unbelievable", "typical",
	"here we go again",
}

// gaslightingTerms are manipulation patterns tracked separately from the
// severity tiers.
var gaslightingTerms = []string{
	"you're crazy", "youre crazy", "you're overreacting", "youre overreacting",
	"that never happened", "you're imagining things", "youre imagining things",
	"you're too sensitive", "youre too sensitive", "you made me do",
	"i never said that", "you always twist", "you're being dramatic",
	"youre being dramatic",
}

// Conflict indicator categories, used both for toxicity scoring and as the
// context windows of the apology classifier.
var conflictEscalation = []string{
	"you always", "you never", "i'm done", "im done", "i can't do this anymore",
	"i cant do this anymore", "this is over", "we're done", "were done",
	"i've had enough", "ive had enough",
}

var conflictShutdown = []string{
	"leave me alone", "i don't want to talk", "i dont want to talk",
	"stop texting me", "don't talk to me", "dont talk to me", "forget it",
	"i'm not doing this", "im not doing this",
}

var conflictDismissive = []string{
	"i don't care", "i dont care", "idc", "not my problem", "so what",
	"who cares", "good for you", "your problem",
}

// playfulMarkers halve keyword-driven toxicity increments for a message;
// "fuck you lol" between friends is usually banter, not abuse.
var playfulMarkers = []string{
	"lol", "lmao", "lmaoo", "haha", "hahaha", "hehe", "rofl", "jk",
	"just kidding", "😂", "🤣", "jaja", "jajaja",
}

// Apology lexicons.
var apologyExplicit = []string{
	"i'm sorry", "im sorry", "i am sorry", "i apologize", "my apologies",
	"forgive me", "my bad", "my fault", "i was wrong", "i owe you an apology",
}

var apologySoft = []string{
	"didn't mean to", "didnt mean to", "shouldn't have", "shouldnt have",
	"feel bad about", "i regret", "that was on me", "i messed up",
	"i screwed up", "i feel terrible",
}

var reconciliationTerms = []string{
	"let's move on", "lets move on", "can we start over", "start fresh",
	"i don't want to fight", "i dont want to fight", "let's not fight",
	"lets not fight", "we're good", "were good", "water under the bridge",
	"let's talk it out", "lets talk it out", "truce", "can we talk",
}

// Sincerity adjustments for individual apologies.
var acknowledgmentTerms = []string{
	"i understand why", "i know i", "i realize", "i realise", "you were right",
	"i hurt you", "i see how", "i get why",
}

var changePromiseTerms = []string{
	"it won't happen again", "it wont happen again", "i'll do better",
	"ill do better", "i promise", "i'll change", "ill change", "never again",
	"i'll work on", "ill work on",
}

var deflectionTerms = []string{
	"but you", "if you hadn't", "if you hadnt", "sorry you feel",
	"sorry if you", "i guess", "sorry but", "you made me",
}

// anyConflictTerm reports whether text (already lowercased) contains a term
// from any conflict category.
func anyConflictTerm(lower string) bool {
	for _, set := range [][]string{conflictEscalation, conflictShutdown, conflictDismissive} {
		if matchesAnyPhrase(lower, set) {
			return true
		}
	}
	return false
}
