package source

// Defaults returns the built-in outlet table. Order here defines the
// grouping order of aggregated results.
func Defaults() []Descriptor {
	return []Descriptor{
		{
			ID:                "geo",
			DisplayName:       "Geo News",
			SearchURLTemplate: "https://www.geo.tv/search/{query}",
			Encoding:          EncodePlus,
			Links: LinkRule{
				AllowSubstrings: []string{"/latest/"},
				BaseURL:         "https://www.geo.tv",
			},
			Article: ArticleRule{
				BodySelectors:   []string{"div.content-area", "article", "div.story-detail"},
				HeadingSelector: "div.heading_H h1",
				ImageSelector:   "div.content-area img",
			},
		},
		{
			ID:                "bbc",
			DisplayName:       "BBC News",
			SearchURLTemplate: "https://www.bbc.co.uk/search?q={query}&filter=news",
			Encoding:          EncodePlus,
			Links: LinkRule{
				AllowSubstrings: []string{"/news/"},
				BaseURL:         "https://www.bbc.co.uk",
				HostRewrites:    map[string]string{"www.bbc.co.uk": "www.bbc.com"},
			},
			Article: ArticleRule{
				BodySelectors: []string{"[data-component=text-block]", "article"},
			},
		},
		{
			ID:                   "ary",
			DisplayName:          "ARY News",
			SearchURLTemplate:    "https://arynews.tv/search/{query}",
			AltSearchURLTemplate: "https://arynews.tv/?s={query}",
			Encoding:             EncodePercent,
			Links: LinkRule{
				DenySubstrings: []string{
					"/category/", "/tag/", "/videos", "/video",
					"/live", "/author/", "/elections",
				},
				BaseURL: "https://arynews.tv",
			},
			Article: ArticleRule{
				BodySelectors: []string{"div.td-post-content"},
			},
		},
		{
			ID:                "samaa",
			DisplayName:       "Samaa News",
			SearchURLTemplate: "https://www.samaa.tv/search/{query}",
			Encoding:          EncodePercent,
			Links: LinkRule{
				AllowSubstrings: []string{"/news/", "/pakistan/", "/latest-news/"},
				BaseURL:         "https://www.samaa.tv",
			},
			Article: ArticleRule{
				BodySelectors: []string{"div.story-content", "div.news-detail"},
			},
		},
		{
			ID:          "dawn",
			DisplayName: "Dawn News",
			SearchURLTemplate: "https://www.dawn.com/search?" +
				"cx=partner-pub-2646044137506720%3A7244554279&cof=FORID%3A10&ie=UTF-8&q={query}",
			Encoding: EncodePlus,
			Links: LinkRule{
				AllowSubstrings: []string{"/news/", "/latest-news/"},
				BaseURL:         "https://www.dawn.com",
			},
			Article: ArticleRule{
				BodySelectors: []string{"div.story__content", "div.story__body"},
			},
		},
	}
}
