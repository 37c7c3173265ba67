package discovery

import (
	"fmt"

	"github.com/hashicorp/consul/api"
)

type ConsulClient struct {
	client *api.Client
}

func NewConsulClient(addr string) (*ConsulClient, error) {
	config := api.DefaultConfig()
	config.Address = addr

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %w", err)
	}
	return &ConsulClient{client: client}, nil
}

// ServiceURL returns the base URL of the first healthy instance of serviceName.
func (c *ConsulClient) ServiceURL(serviceName string) (string, error) {
	entries, _, err := c.client.Health().Service(serviceName, "", true, nil)
	if err != nil {
		return "", fmt.Errorf("failed to query service %s: %w", serviceName, err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no healthy instances of %s found", serviceName)
	}

	svc := entries[0].Service
	address := svc.Address
	if address == "" && entries[0].Node != nil {
		address = entries[0].Node.Address
	}
	if address == "" {
		address = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", address, svc.Port), nil
}
