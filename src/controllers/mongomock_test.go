package controllers_test

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"socialnest/src/lib"
)

// mockApp points the storage globals at mtest's mocked client and returns
// the wired route table. Responses are primed per subtest with
// mt.AddMockResponses; the commands the handlers actually sent are then
// inspected through the started-event log.
func mockApp(mt *mtest.T) *fiber.App {
	lib.Client = mt.Client
	lib.DB = mt.Client.Database("socialnest_test")
	return newTestApp()
}

// startedCommands returns the extended-JSON form of every command with the
// given name that the handler under test issued, in order.
func startedCommands(mt *mtest.T, name string) []string {
	var cmds []string
	for _, ev := range mt.GetAllStartedEvents() {
		if ev.CommandName == name {
			cmds = append(cmds, ev.Command.String())
		}
	}
	return cmds
}
