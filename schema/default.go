package schema

// Default returns the schema of the Outbrain click-prediction feature
// vectors: the click label, the identifier-like categorical columns and
// the engineered popularity/recency numeric columns.
func Default() Schema {
	return Schema{Features: []Feature{
		{Name: "label", Kind: KindLabel},
		{Name: "ad_id", Kind: KindCategorical},
		{Name: "doc_id", Kind: KindCategorical},
		{Name: "doc_event_id", Kind: KindCategorical},
		{Name: "ad_advertiser", Kind: KindCategorical},
		{Name: "doc_ad_source_id", Kind: KindCategorical},
		{Name: "doc_ad_publisher_id", Kind: KindCategorical},
		{Name: "event_country", Kind: KindCategorical},
		{Name: "event_platform", Kind: KindCategorical},
		{Name: "traffic_source", Kind: KindCategorical},
		{Name: "ad_views", Kind: KindNumeric},
		{Name: "doc_views", Kind: KindNumeric},
		{Name: "doc_ad_days_since_published", Kind: KindNumeric},
		{Name: "doc_event_days_since_published", Kind: KindNumeric},
		{Name: "pop_ad_id", Kind: KindNumeric},
		{Name: "pop_document_id", Kind: KindNumeric},
		{Name: "pop_publisher_id", Kind: KindNumeric},
		{Name: "pop_source_id", Kind: KindNumeric},
		{Name: "user_views", Kind: KindNumeric},
	}}
}
