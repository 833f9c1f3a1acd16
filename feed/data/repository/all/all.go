// Package all registers every post store driver.
package all

import (
	_ "github.com/ncobase/postfeed/feed/data/repository/memory"
	_ "github.com/ncobase/postfeed/feed/data/repository/mongodb"
	_ "github.com/ncobase/postfeed/feed/data/repository/postgres"
	_ "github.com/ncobase/postfeed/feed/data/repository/sqlite"
)
