package services

import (
	"github.com/jmoiron/sqlx"

	"github.com/dmorell/atelier/internal/config"
	"github.com/dmorell/atelier/internal/db"
	identity2 "github.com/dmorell/atelier/internal/services/identity"
	profile2 "github.com/dmorell/atelier/internal/services/profile"
	project2 "github.com/dmorell/atelier/internal/services/project"
)

type Services struct {
	Identity *identity2.IdentityService
	Profile  *profile2.ProfileService
	Project  *project2.ProjectService

	// DB is the shared connection, also used by the auth gate's role
	// resolver.
	DB *sqlx.DB
}

func NewServices(conf *config.Config) *Services {
	dbconn := db.NewConn(conf)

	return &Services{
		Identity: identity2.NewIdentityService(identity2.NewAccountRepo(dbconn)),
		Profile:  profile2.NewProfileService(profile2.NewProfileRepo(dbconn)),
		Project:  project2.NewProjectService(project2.NewProjectRepo(dbconn)),
		DB:       dbconn,
	}
}
