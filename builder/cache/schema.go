package cache

// BoltDB bucket names
const (
	BucketSSR   = "ssr"   // {inputHash} -> SSRArtifact
	BucketMeta  = "meta"  // schema_version
	BucketStats = "stats" // build_count

	KeySchemaVersion = "schema_version"
	KeyBuildCount    = "build_count"
)

// AllBuckets returns all bucket names for initialization
func AllBuckets() []string {
	return []string{
		BucketSSR,
		BucketMeta,
		BucketStats,
	}
}
