package extractor

// denylist holds common English and generic-finance words that match the
// uppercase letter pattern but are almost never tickers. Marked-form matches
// bypass this list.
var denylist = makeSet([]string{
	// common English, 2-3 letters
	"THE", "AND", "FOR", "ARE", "BUT", "NOT", "YOU", "ALL", "ANY", "CAN",
	"HAD", "HER", "WAS", "ONE", "OUR", "OUT", "DAY", "GET", "HAS", "HIM",
	"HIS", "HOW", "MAN", "NEW", "NOW", "OLD", "SEE", "TWO", "WAY", "WHO",
	"BOY", "DID", "ITS", "LET", "PUT", "SAY", "SHE", "TOO", "USE", "MAY",
	"OFF", "OWN", "TRY", "ASK", "BIG", "FAR", "FEW", "GOT", "LOT", "RUN",
	"SET", "TOP", "WIN", "YES", "YET", "BAD", "END", "LOW", "PER", "SO",
	"AT", "BE", "BY", "DO", "GO", "IF", "IN", "IS", "IT", "ME", "MY", "NO",
	"OF", "ON", "OR", "TO", "UP", "US", "WE", "AN", "AS", "AM", "OK",
	// common English, 4-5 letters
	"THAT", "WITH", "HAVE", "THIS", "WILL", "YOUR", "FROM", "THEY", "KNOW",
	"WANT", "BEEN", "GOOD", "MUCH", "SOME", "TIME", "VERY", "WHEN", "COME",
	"HERE", "JUST", "LIKE", "LONG", "MAKE", "MANY", "MORE", "ONLY", "OVER",
	"SUCH", "TAKE", "THAN", "THEM", "WELL", "WERE", "WHAT", "ABOUT", "AFTER",
	"AGAIN", "COULD", "EVERY", "FIRST", "FOUND", "GREAT", "HOUSE", "LARGE",
	"NEVER", "OTHER", "PLACE", "POINT", "RIGHT", "SMALL", "SOUND", "STILL",
	"THEIR", "THERE", "THESE", "THING", "THINK", "THREE", "WATER", "WHERE",
	"WHICH", "WORLD", "WOULD", "WRITE", "YEARS", "BEING", "GOING", "DOING",
	"DONT", "CANT", "WONT", "ISNT", "AINT", "ELSE", "EVER", "EVEN", "ONCE",
	"ONTO", "INTO", "UPON", "ALSO", "BOTH", "EACH", "MOST", "NEXT", "LAST",
	"LESS", "LEAST", "BACK", "DOWN", "MUST", "NEED", "SAME", "SINCE", "SOON",
	"THEN", "THUS", "TILL", "UNTIL", "WHILE", "WHOSE", "DOES", "DONE", "GONE",
	"KEEP", "KEPT", "GIVE", "TOOK", "TOLD", "SAID", "SEEN", "SEEM", "SHOW",
	"SURE", "SOLD", "WEEK", "YEAR", "TODAY", "NIGHT", "MONTH", "HOUR", "AWAY",
	"BELOW", "ABOVE", "AGO", "REAL", "TRUE", "FALSE", "IDEA", "NICE", "OKAY",
	// internet/forum shorthand
	"IMO", "IMHO", "TLDR", "TIL", "LOL", "LMAO", "WTF", "OMG", "FYI", "TBH",
	"BTW", "IDK", "IIRC", "AFAIK", "EDIT", "POST", "LINK", "META", "THANK",
	"PLS", "PLZ", "NSFW", "AMA", "ELI", "OP", "PSA", "RIP",
	// generic finance words that pattern-match tickers
	"CASH", "STOCK", "SHARE", "PRICE", "MONEY", "TRADE", "FUND", "FUNDS",
	"BANK", "BANKS", "DEBT", "LOAN", "LOANS", "RATE", "RATES", "GAIN",
	"GAINS", "LOSS", "BULL", "BEAR", "CALL", "CALLS", "PUTS", "HOLD", "SELL",
	"BUY", "BUYS", "YOLO", "MOON", "HODL", "FOMO", "FUD", "PUMP", "DUMP",
	"SHORT", "COST", "VALUE", "RISK", "RISKS", "BROKE", "RICH", "POOR",
	"SAVE", "SPEND", "OWE", "TAX", "TAXES", "BONDS", "BOND", "YIELD",
	"ETF", "ETFS", "IPO", "IPOS", "OTC", "ATH", "ATL", "EPS", "PE", "ROI",
	"ROTH", "IRA", "HSA", "DD", "TA", "FA", "PT", "EOD", "EOW", "EOY",
	"YTD", "MOASS", "DIP", "DIPS", "PROFIT",
	// institutions, orgs, units
	"USA", "USD", "EUR", "GBP", "CAD", "AUD", "JPY", "CNY", "BTC", "ETH",
	"GDP", "CPI", "FED", "SEC", "FDA", "IRS", "DOJ", "FTC", "NYSE", "DOW",
	"WSB", "CNBC", "CEO", "CFO", "CTO", "COO", "CIO", "LLC", "INC", "CORP",
	"LTD", "API", "APP", "APPS", "NEWS", "TV", "UK", "EU", "NY", "LA", "SF",
	"AI", "IT", "PC", "CEOS", "Q1", "Q2", "Q3", "Q4",
})

// supplementalWords is the stricter bar applied to standalone tokens in text
// with no financial context: common 4-5 letter English words that slip past
// the denylist.
var supplementalWords = makeSet([]string{
	"ASKED", "BEGAN", "BRING", "CAME", "CARE", "CLOSE", "EARLY", "FACE",
	"FEEL", "FELT", "FIND", "GAVE", "HAND", "HARD", "HEAR", "HEARD", "HELP",
	"HIGH", "HOME", "HOPE", "KIND", "KNEW", "LATER", "LEAVE", "LIFE", "LINE",
	"LIVE", "LOOK", "LOVE", "MADE", "MEAN", "MIND", "MIGHT", "NAME", "OPEN",
	"PART", "PLAY", "READ", "ROOM", "SIDE", "STAND", "START", "STATE",
	"STORY", "TALK", "TELL", "THANKS", "TURN", "WALK", "WEEKS", "WENT",
	"WHOLE", "WORD", "WORDS", "WORK", "YEAH", "YOUNG",
})

// contextVocab is the broader vocabulary used to decide whether a text is
// financial at all. Tokens are matched lowercase against whole words.
var contextVocab = makeSet([]string{
	// exchanges and venues
	"nyse", "nasdaq", "dow", "sp500", "s&p", "djia", "amex", "otc",
	// trade verbs
	"buy", "buying", "bought", "sell", "selling", "sold", "hold", "holding",
	"trade", "trading", "traded", "invest", "investing", "invested", "long",
	"short", "shorting", "squeeze",
	// instrument nouns
	"stock", "stocks", "share", "shares", "option", "options", "call",
	"calls", "put", "puts", "warrant", "warrants", "bond", "bonds", "etf",
	"etfs", "future", "futures", "ticker", "tickers", "contract",
	"contracts",
	// market vocabulary
	"market", "markets", "earnings", "dividend", "dividends", "portfolio",
	"bullish", "bearish", "bull", "bear", "rally", "crash", "volatility",
	"valuation", "ipo", "price", "prices", "target", "upgrade", "downgrade",
	"analyst", "analysts", "premarket", "aftermarket", "afterhours",
	// sector words
	"tech", "financials", "semiconductor", "semiconductors", "biotech",
	"energy", "retail", "crypto", "fintech",
})

func makeSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
