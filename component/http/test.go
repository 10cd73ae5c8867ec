package http

// TestConfig returns a configuration that binds both interfaces to random free ports on localhost.
func TestConfig() Config {
	return Config{
		PublicInterface:   InterfaceConfig{Listener: "localhost:0"},
		InternalInterface: InterfaceConfig{Listener: "localhost:0"},
	}
}
