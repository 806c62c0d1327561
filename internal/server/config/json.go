package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/accounts/internal/flagx"
	"github.com/dmitrijs2005/accounts/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration, so both "24h" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	AvatarStorage         string         `json:"avatar_storage"`
	AvatarDir             string         `json:"avatar_dir"`
	AvatarBaseURL         string         `json:"avatar_base_url"`
	DefaultAvatar         string         `json:"default_avatar"`
	UsernameDisallowed    *string        `json:"username_disallowed"`
	PasswordDisallowed    *string        `json:"password_disallowed"`
	LogLevel              string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c / -config in
// args. Keys missing from the file keep their current value; the blacklists
// are pointers so that an explicit "" can clear them. An unreadable or
// malformed file panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.AvatarStorage, c.AvatarStorage)
	setString(&config.AvatarDir, c.AvatarDir)
	setString(&config.AvatarBaseURL, c.AvatarBaseURL)
	setString(&config.DefaultAvatar, c.DefaultAvatar)
	setString(&config.LogLevel, c.LogLevel)
	if c.UsernameDisallowed != nil {
		config.UsernameDisallowed = *c.UsernameDisallowed
	}
	if c.PasswordDisallowed != nil {
		config.PasswordDisallowed = *c.PasswordDisallowed
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
