package booking

import (
	"github.com/m04kA/HouseRent-BookingService/pkg/dbmetrics"
)

// DB interfaces shared with dbmetrics
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor
