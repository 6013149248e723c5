package template

// DefaultPostTemplate is the embedded template for generated post text.
// It uses {{variable}} placeholders for dynamic content injection.
const DefaultPostTemplate = `[{{label}}] {{summary}}

{{cta}} with {{brand}}.`

// RegeneratedPostTemplate is used when a single platform's text is regenerated.
const RegeneratedPostTemplate = `[{{label}}] Regenerated post text at {{time}}. This is a new version of the post text.`

// RegeneratedHashtags are the canned hashtags attached to regenerated text.
const RegeneratedHashtags = "#regenerated #new #hashtags"
