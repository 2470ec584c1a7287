package messaging

// Level host subjects.
const (
	SubjectLevelLoad   = "level.load"
	SubjectLevelLoaded = "level.loaded"
)

// Session command subjects served by the daemon.
const (
	SubjectSessionNew    = "session.new"
	SubjectSessionSave   = "session.save"
	SubjectSessionLoad   = "session.load"
	SubjectSessionReload = "session.reload"
	SubjectSessionDelete = "session.delete"
	SubjectSessionList   = "session.list"
	SubjectSessionStatus = "session.status"
)
