package yahoo

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol                     string   `json:"symbol"`
	ShortName                  string   `json:"shortName"`
	LongName                   string   `json:"longName"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
}

type screenerResponse struct {
	Finance struct {
		Result []struct {
			Quotes []quoteResult `json:"quotes"`
		} `json:"result"`
	} `json:"finance"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

type optionsResponse struct {
	OptionChain struct {
		Result []ChainResult `json:"result"`
	} `json:"optionChain"`
}

// ChainResult is one raw Yahoo option-chain payload for a symbol.
type ChainResult struct {
	UnderlyingSymbol string  `json:"underlyingSymbol"`
	ExpirationDates  []int64 `json:"expirationDates"`
	Quote            struct {
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
	} `json:"quote"`
	Options []ChainOptions `json:"options"`
}

// ChainOptions holds the call/put rows for one expiration.
type ChainOptions struct {
	ExpirationDate int64        `json:"expirationDate"`
	Calls          []ChainQuote `json:"calls"`
	Puts           []ChainQuote `json:"puts"`
}

// ChainQuote is one raw option row in Yahoo field names.
type ChainQuote struct {
	Strike            float64  `json:"strike"`
	Bid               *float64 `json:"bid"`
	Ask               *float64 `json:"ask"`
	LastPrice         *float64 `json:"lastPrice"`
	ImpliedVolatility *float64 `json:"impliedVolatility"`
	OpenInterest      *int64   `json:"openInterest"`
	Volume            *int64   `json:"volume"`
}

type searchResponse struct {
	News []struct {
		Title     string `json:"title"`
		Publisher string `json:"publisher"`
		Link      string `json:"link"`
	} `json:"news"`
}
