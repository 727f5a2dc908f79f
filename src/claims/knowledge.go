package claims

import "strings"

// knownClaim is a well-documented, already-debunked assertion. The table
// backs the deterministic fallback path when no AI provider is configured.
type knownClaim struct {
	terms      []string
	status     string
	confidence float64
	evidence   []string
	sources    []knownSource
}

type knownSource struct {
	name string
	url  string
}

var knowledgeBase = []knownClaim{
	{
		terms:      []string{"vaccine", "autism"},
		status:     StatusFalse,
		confidence: 0.95,
		evidence: []string{
			"Multiple large studies have found no link between vaccines and autism.",
			"The original study suggesting a link was retracted due to serious procedural and ethical concerns.",
		},
		sources: []knownSource{
			{name: "CDC", url: "https://www.cdc.gov/vaccinesafety/concerns/autism.html"},
			{name: "WHO", url: "https://www.who.int/news-room/questions-and-answers/item/vaccines-and-immunization-myths-and-misconceptions"},
		},
	},
	{
		terms:      []string{"5g", "covid"},
		status:     StatusFalse,
		confidence: 0.95,
		evidence: []string{
			"Viruses cannot travel on radio waves or mobile networks.",
			"COVID-19 spread in countries without 5G coverage.",
		},
		sources: []knownSource{
			{name: "WHO", url: "https://www.who.int/emergencies/diseases/novel-coronavirus-2019/advice-for-public/myth-busters"},
		},
	},
	{
		terms:      []string{"bleach", "cure"},
		status:     StatusFalse,
		confidence: 0.97,
		evidence: []string{
			"Ingesting bleach is dangerous and has no therapeutic effect on any disease.",
		},
		sources: []knownSource{
			{name: "FDA", url: "https://www.fda.gov/consumers/consumer-updates/danger-dont-drink-miracle-mineral-solution-or-similar-products"},
		},
	},
	{
		terms:      []string{"climate", "hoax"},
		status:     StatusFalse,
		confidence: 0.94,
		evidence: []string{
			"Multiple independent datasets confirm long-term global warming driven by human activity.",
		},
		sources: []knownSource{
			{name: "NASA", url: "https://climate.nasa.gov/evidence/"},
		},
	},
	{
		terms:      []string{"earth", "flat"},
		status:     StatusFalse,
		confidence: 0.99,
		evidence: []string{
			"The spherical shape of the Earth is directly observable from orbit and confirmed by centuries of measurement.",
		},
		sources: []knownSource{
			{name: "NOAA", url: "https://oceanservice.noaa.gov/facts/earth-round.html"},
		},
	},
}

// lookupKnownClaim returns the first knowledge-base entry whose terms all
// appear in the claim text.
func lookupKnownClaim(claimText string) *knownClaim {
	lower := strings.ToLower(claimText)
	for i := range knowledgeBase {
		matched := true
		for _, term := range knowledgeBase[i].terms {
			if !strings.Contains(lower, term) {
				matched = false
				break
			}
		}
		if matched {
			return &knowledgeBase[i]
		}
	}
	return nil
}
