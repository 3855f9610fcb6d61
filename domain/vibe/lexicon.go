package vibe

// Keyword classes driving the lexical part of the detector. Word lists are
// matched against lowercase tokens; phrase lists against the lowercase text.

var positiveWords = map[string]bool{
	"great": true, "good": true, "awesome": true, "amazing": true,
	"wonderful": true, "fantastic": true, "love": true, "happy": true,
	"excited": true, "glad": true, "nice": true, "perfect": true,
	"excellent": true, "best": true, "fun": true, "yay": true,
	"thanks": true, "thank": true, "appreciate": true, "grateful": true,
}

var negativeWords = map[string]bool{
	"bad": true, "terrible": true, "awful": true, "horrible": true,
	"hate": true, "sad": true, "angry": true, "upset": true,
	"annoyed": true, "annoying": true, "worst": true, "miserable": true,
	"frustrated": true, "frustrating": true, "disappointed": true,
	"tired": true, "exhausted": true, "sick": true, "done": true,
}

var stressWords = map[string]bool{
	"stress": true, "stressed": true, "stressful": true, "deadline": true,
	"overwhelmed": true, "pressure": true, "panic": true, "anxious": true,
	"anxiety": true, "worried": true, "worry": true, "scared": true,
	"behind": true, "late": true, "urgent": true, "crisis": true,
	"exhausted": true, "drowning": true, "swamped": true,
}

var angerWords = map[string]bool{
	"angry": true, "furious": true, "rage": true, "mad": true,
	"hate": true, "pissed": true, "livid": true, "outraged": true,
	"unbelievable": true, "ridiculous": true, "seriously": true,
}

var calmWords = map[string]bool{
	"calm": true, "relaxed": true, "peaceful": true, "chill": true,
	"easy": true, "steady": true, "settled": true, "rest": true,
	"breathe": true, "quiet": true, "gentle": true, "mellow": true,
}

var excitementWords = map[string]bool{
	"excited": true, "thrilled": true, "hyped": true, "stoked": true,
	"pumped": true, "incredible": true, "unreal": true, "finally": true,
	"wow": true, "omg": true, "amazing": true, "yes": true,
}

var chaosWords = map[string]bool{
	"chaos": true, "chaotic": true, "crazy": true, "insane": true,
	"everywhere": true, "everything": true, "nothing": true, "random": true,
	"mess": true, "messy": true, "wild": true, "spiraling": true,
}

// Intensifiers pile onto a stated feeling; a cluster of them alongside
// positive self-report is the over-compensation signal.
var intensifierWords = map[string]bool{
	"totally": true, "really": true, "absolutely": true, "completely": true,
	"definitely": true, "super": true, "very": true, "honestly": true,
	"literally": true, "seriously": true, "perfectly": true,
}

// okayPhrases are explicit positive self-reports; the "I'm fine" class.
var okayPhrases = []string{
	"i'm fine", "im fine", "i am fine", "i'm ok", "i'm okay", "im okay",
	"it's fine", "its fine", "all good", "no worries", "don't worry",
	"dont worry", "everything is fine", "everything's fine", "i'm good",
	"nothing's wrong", "nothing is wrong", "totally fine",
}

// passiveAggressivePhrases read polite on the surface and land sideways.
var passiveAggressivePhrases = []string{
	"fine.", "whatever", "if you say so", "sure, fine", "good for you",
	"no offense", "as i said", "per my last message", "like i said",
	"must be nice", "i guess", "k.", "noted.", "interesting choice",
	"do what you want", "couldn't care less",
}

var dismissivePhrases = []string{
	"whatever", "who cares", "doesn't matter", "doesnt matter", "forget it",
	"never mind", "nevermind", "not my problem", "don't care", "dont care",
}
