package di

// FeatureNames lists the canonical registration keys.
type FeatureNames struct {
	// Core
	Config string
	Logger string

	// Features
	DataStore string
	Login     string
	Pokemon   string
	App       string
}

// Names contains the registration keys used by the composition root.
var Names = FeatureNames{
	Config: "config",
	Logger: "logger",

	DataStore: "datastore",
	Login:     "login",
	Pokemon:   "pokemon",
	App:       "app",
}
