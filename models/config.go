package models

type Config struct {
	Debug bool `yaml:"debug" envconfig:"BEACON_DEBUG"`
	Api   struct {
		Url                   string `yaml:"url" envconfig:"BEACON_API_URL"`
		Port                  string `yaml:"port" envconfig:"BEACON_API_INTERNAL_PORT"`
		AccessLevelsPath      string `yaml:"accessLevelsPath" envconfig:"BEACON_API_ACCESS_LEVELS_PATH" default:"./access_levels.yml"`
		CatalogRefreshMinutes int    `yaml:"catalogRefreshMinutes" envconfig:"BEACON_API_CATALOG_REFRESH_MINUTES" default:"5"`
	} `yaml:"api"`
	Beacon struct {
		Id               string `yaml:"id" envconfig:"BEACON_ID" default:"org.ga4gh.beacon"`
		Name             string `yaml:"name" envconfig:"BEACON_NAME" default:"Beacon Discovery Service"`
		OrganizationName string `yaml:"organizationName" envconfig:"BEACON_ORG_NAME" default:"EGA"`
		OrganizationUrl  string `yaml:"organizationUrl" envconfig:"BEACON_ORG_URL" default:"https://ega-archive.org"`
		DatasetUrlBase   string `yaml:"datasetUrlBase" envconfig:"BEACON_DATASET_URL_BASE" default:"https://ega-archive.org/datasets"`
		ContactUrl       string `yaml:"contactUrl" envconfig:"BEACON_CONTACT_URL" default:"mailto:beacon.ega@crg.eu"`
	} `yaml:"beacon"`
	Elasticsearch struct {
		Url      string `yaml:"url" envconfig:"BEACON_ES_URL"`
		Username string `yaml:"username" envconfig:"BEACON_ES_USERNAME"`
		Password string `yaml:"password" envconfig:"BEACON_ES_PASSWORD"`
	} `yaml:"elasticsearch"`
	Filters struct {
		// when true, an ontology:term with no column mapping fails the
		// request; when false the predicate is silently dropped
		RejectUnknownTerms bool `yaml:"rejectUnknownTerms" envconfig:"BEACON_FILTERS_REJECT_UNKNOWN" default:"true"`
	} `yaml:"filters"`
	Annotations struct {
		Enabled     bool   `yaml:"enabled" envconfig:"BEACON_ANNOTATIONS_ENABLED" default:"true"`
		CellBaseUrl string `yaml:"cellBaseUrl" envconfig:"BEACON_ANNOTATIONS_CELLBASE_URL" default:"http://cellbase.clinbioinfosspa.es/cb/webservices/rest/v4"`
		DbSnpUrl    string `yaml:"dbSnpUrl" envconfig:"BEACON_ANNOTATIONS_DBSNP_URL" default:"https://api.ncbi.nlm.nih.gov/variation/v0"`
	} `yaml:"annotations"`
}
