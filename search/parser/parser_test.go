package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/use-agent/tarzi/search"
)

const bingHTML = `
<html><body>
<ol id="b_results">
<li class="b_algo"><h2><a href="https://example.com/a">First Result</a></h2><div class="b_caption"><p>First snippet</p></div></li>
<li class="b_algo"><h2><a href="/local/page">Second Result</a></h2><div class="b_caption"><p>Second snippet</p></div></li>
<li class="b_algo"><h2><a href=""></a></h2></li>
</ol>
</body></html>`

func TestBingParserRanksAndNormalizesURLs(t *testing.T) {
	results, err := bingParser{}.Parse(bingHTML, 10)
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, "https://example.com/a", results[0].URL)
	assert.Equal(t, 2, results[1].Rank)
	assert.Equal(t, "https://www.bing.com/local/page", results[1].URL)
}

func TestBingParserRespectsLimit(t *testing.T) {
	results, err := bingParser{}.Parse(bingHTML, 1)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestParserZeroLimitReturnsEmpty(t *testing.T) {
	results, err := bingParser{}.Parse(bingHTML, 0)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestParserEmptyContentReturnsEmpty(t *testing.T) {
	results, err := bingParser{}.Parse("", 5)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

const duckDuckGoHTML = `
<div class="result__body">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.org">Example title</a>
  <a class="result__snippet">An example snippet.</a>
</div>`

func TestDuckDuckGoHTMLParserNormalizesProtocolRelativeURL(t *testing.T) {
	results, err := duckDuckGoHTMLParser{}.Parse(duckDuckGoHTML, 5)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "https://duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.org", results[0].URL)
	assert.Equal(t, 1, results[0].Rank)
}

const baiduHTML = `
<div class="result c-container"><h3><a href="https://real.example/1">Organic result</a></h3><div class="c-abstract">abc</div></div>
<div class="result c-container" data-tuiguang="1"><h3><a href="https://ad.example/1">Sponsored</a></h3></div>
<div class="result c-container"><h3><a href="https://real.example/2">Second organic</a></h3></div>`

func TestBaiduParserSkipsAdsRegardlessOfAttributeValue(t *testing.T) {
	results, err := baiduParser{}.Parse(baiduHTML, 10)
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	for i, r := range results {
		assert.Equal(t, i+1, r.Rank)
		assert.NotContains(t, r.URL, "ad.example")
	}
}

const braveHTML = `
<div class="result-row"><a href="https://brave-result.example/1">Brave result</a><p class="result-snippet">snippet</p></div>
<div class="result-row"><a href="">No href</a></div>`

func TestBraveParserSkipsEntriesMissingTitleOrURL(t *testing.T) {
	results, err := braveParser{}.Parse(braveHTML, 10)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "https://brave-result.example/1", results[0].URL)
}

func TestFactoryFallsBackForUnsupportedPair(t *testing.T) {
	f := NewFactory()
	p := f.GetParser(search.Bing, search.ApiQuery)
	results, err := p.Parse("irrelevant", 3)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Rank)
	assert.NotEmpty(t, results[0].Title)
}

func TestFactoryFallbackRespectsZeroLimit(t *testing.T) {
	f := NewFactory()
	p := f.GetParser(search.Bing, search.ApiQuery)
	results, err := p.Parse("irrelevant", 0)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestFactoryReturnsNativeParsersForKnownPairs(t *testing.T) {
	f := NewFactory()
	assert.IsType(t, bingParser{}, f.GetParser(search.Bing, search.WebQuery))
	assert.IsType(t, duckDuckGoHTMLParser{}, f.GetParser(search.DuckDuckGo, search.WebQuery))
	assert.IsType(t, duckDuckGoAPIParser{}, f.GetParser(search.DuckDuckGo, search.ApiQuery))
	assert.IsType(t, googleParser{}, f.GetParser(search.Google, search.WebQuery))
	assert.IsType(t, sogouWeixinParser{}, f.GetParser(search.SogouWeixin, search.WebQuery))
}
