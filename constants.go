package marthe

const (
	nodata  = -9999. // MARTHE no-data sentinel
	nodata2 = -8888. // secondary sentinel found in exported series
)
