package config

type StorageConfig struct {
	Provider string       `yaml:"provider"` // local, s3
	Local    *LocalConfig `yaml:"local"`
	S3       *S3Config    `yaml:"s3"`
}

type LocalConfig struct {
	BasePath string `yaml:"base_path"`
	BaseURL  string `yaml:"base_url"`
}

type S3Config struct {
	Region string `yaml:"region"`
	Bucket string `yaml:"bucket"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Provider: getEnv("STORAGE_PROVIDER", "local"),
		Local: &LocalConfig{
			BasePath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			BaseURL:  getEnv("STORAGE_LOCAL_URL", "http://localhost:8001/uploads"),
		},
		S3: &S3Config{
			Region: getEnv("AWS_S3_REGION", "ap-south-1"),
			Bucket: getEnv("AWS_S3_BUCKET", "gorent-vehicle-images"),
		},
	}
}
