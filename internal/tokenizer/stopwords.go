package tokenizer

// englishStopWords and cjkStopWords are the fixed stop-word sets used by the
// fallback extraction path. They are intentionally small and
// fixed rather than locale-configurable: the design pins the fallback to a
// deterministic, tagger-independent behavior.
var englishStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "of": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "it": {}, "its": {},
	"as": {}, "if": {}, "then": {}, "than": {}, "so": {}, "not": {}, "no": {},
	"do": {}, "does": {}, "did": {}, "has": {}, "have": {}, "had": {},
	"you": {}, "your": {}, "we": {}, "our": {}, "they": {}, "their": {},
	"he": {}, "she": {}, "him": {}, "her": {}, "his": {}, "i": {}, "me": {}, "my": {},
	"can": {}, "could": {}, "will": {}, "would": {}, "should": {}, "about": {},
	"into": {}, "from": {}, "up": {}, "down": {}, "out": {}, "over": {}, "under": {},
}

var cjkStopWords = map[string]struct{}{
	"的": {}, "了": {}, "在": {}, "是": {}, "我": {}, "有": {}, "和": {}, "就": {},
	"不": {}, "人": {}, "都": {}, "一": {}, "一个": {}, "上": {}, "也": {}, "很": {},
	"到": {}, "说": {}, "要": {}, "去": {}, "你": {}, "会": {}, "着": {}, "没有": {},
	"看": {}, "好": {}, "自己": {}, "这": {}, "那": {}, "与": {}, "及": {}, "或": {},
}

func isStopWord(lower string) bool {
	if _, ok := englishStopWords[lower]; ok {
		return true
	}
	_, ok := cjkStopWords[lower]
	return ok
}
