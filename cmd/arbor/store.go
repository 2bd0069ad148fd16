package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/ports"
)

// registerStoreFlags adds the storage selection flags shared by the server
// commands.
func registerStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("dir", "", "Directory for the file-backed graph store (default .arbor/graphs)")
	cmd.Flags().String("redis", "", "Redis address (host:port); when set, graphs are stored in Redis instead of files")
	cmd.Flags().Int("redis-db", 0, "Redis database number")
}

// openStore builds the graph store selected by the command flags. With
// --redis it connects to Redis; otherwise graphs live as YAML files
// under --dir.
func openStore(cmd *cobra.Command) (ports.GraphStore, func(), error) {
	addr, _ := cmd.Flags().GetString("redis")
	if addr != "" {
		db, _ := cmd.Flags().GetInt("redis-db")
		st := redis.New(addr, "", db)
		return st, func() { _ = st.Close() }, nil
	}

	dir, _ := cmd.Flags().GetString("dir")
	return file.NewStore(dir), func() {}, nil
}
