// Package langprint is the embeddable Go client for langprint: character-bigram
// language fingerprints built from text and kept in Valkey, Redis or SQLite.
//
// Profiles can be built without any storage:
//
//	vec, _ := langprint.Build("The quick brown fox")
//
// A Client adds persistence and the classifier table:
//
//	client, _ := langprint.New(ctx, langprint.WithSQLite("data/langprint.db"))
//	defer client.Close()
//	_, _, _ = client.Save(ctx, "en", englishText, "https://en.wikipedia.org/wiki/Earth")
//	table, _ := client.Table(ctx)
//	_ = table.Encode(os.Stdout, langprint.FormatJS)
package langprint
