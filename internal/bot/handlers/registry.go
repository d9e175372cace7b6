package handlers

// RegisteredHandler represents a command handler with its description and middleware.
// It encapsulates all information needed to register and document a command.
type RegisteredHandler struct {
	Name        string
	Description string
	Handler     HandlerFunc
	Middleware  []Middleware
}

// Descriptor is the help entry of a command.
type Descriptor struct {
	Name        string
	Description string
}

// Commands lists every command in help order.
var Commands = []Descriptor{
	{Name: "help", Description: "list commands"},
	{Name: "ping", Description: "get a pong back"},
	{Name: "jp", Description: "Get a Japanese sentence I think"},
	{Name: "clear", Description: "clear this server's sentence history (server owner only)"},
}

// RegisterAllCommands initializes and returns all available bot commands in help order.
// It configures each command with appropriate handlers and middleware.
func RegisterAllCommands(deps HandlerDeps) []RegisteredHandler {
	constructors := map[string]func(HandlerDeps) HandlerFunc{
		"help":  NewHelpHandler,
		"ping":  NewPingHandler,
		"jp":    NewJPHandler,
		"clear": NewClearHandler,
	}
	middleware := map[string][]Middleware{
		"jp":    {ServerOnly(deps)},
		"clear": {ServerOnly(deps), OwnerOrAdmin(deps)},
	}
	if deps.Typing != nil {
		for _, name := range []string{"jp", "clear"} {
			middleware[name] = append(middleware[name], deps.Typing)
		}
	}

	handlers := make([]RegisteredHandler, 0, len(Commands))
	for _, c := range Commands {
		handlers = append(handlers, RegisteredHandler{
			Name:        c.Name,
			Description: c.Description,
			Handler:     constructors[c.Name](deps),
			Middleware:  middleware[c.Name],
		})
	}
	return handlers
}
