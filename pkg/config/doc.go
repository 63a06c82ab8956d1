/*
Package config loads the nurseduty YAML configuration.

Defaults come first, the file overlays them and command line flags override
both. A minimal file:

	server:
	  addr: ":8000"
	storage:
	  backend: bolt
	  data_dir: /var/lib/nurseduty

StorageConfig.OpenBackend turns the storage section into a storage.Backend.
*/
package config
