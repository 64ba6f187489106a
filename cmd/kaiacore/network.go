// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/kaiacore/committee"
	"github.com/vechain/kaiacore/kaia"
	"github.com/vechain/kaiacore/nodeclient"
	"github.com/vechain/kaiacore/reward"
)

type committeeConfig struct {
	Mode      string       `yaml:"mode"`
	Anchor    string       `yaml:"anchor"`
	GovNode   kaia.Address `yaml:"govNode"`
	Retention uint64       `yaml:"retention"`
}

// network is everything a service instance needs to know about the chain it follows.
type network struct {
	Genesis   uint64          `yaml:"genesis"`
	Forks     kaia.ForkConfig `yaml:"forks"`
	Chain     kaia.Config     `yaml:"chain"`
	Reward    reward.Config   `yaml:"reward"`
	Committee committeeConfig `yaml:"committee"`
}

// loadNetwork reads a network file. Forks omitted from the file never activate,
// reward parameters omitted from it keep their mainnet values.
func loadNetwork(path string) (*network, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open network file")
	}
	defer file.Close()

	net := &network{
		Forks:  kaia.NoFork,
		Reward: reward.DefaultConfig(),
	}
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(net); err != nil {
		return nil, errors.Wrap(err, "decode network file")
	}
	if err := net.validate(); err != nil {
		return nil, errors.Wrapf(err, "network file %v", path)
	}
	return net, nil
}

// networkFromNode builds the network from the chain config reported by the node.
func networkFromNode(ctx context.Context, client *nodeclient.Client) (*network, error) {
	cfg, err := client.GetChainConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get chain config")
	}
	rewards, err := cfg.Reward()
	if err != nil {
		return nil, errors.Wrap(err, "reward config")
	}
	net := &network{
		Forks:  cfg.Forks(),
		Chain:  cfg.Kaia(),
		Reward: rewards,
	}
	if err := net.validate(); err != nil {
		return nil, errors.Wrap(err, "node chain config")
	}
	return net, nil
}

func (n *network) validate() error {
	if err := n.Forks.Validate(); err != nil {
		return err
	}
	if _, err := committee.ParseActivationMode(n.Committee.Mode); err != nil {
		return err
	}
	if _, err := committee.ParseAnchor(n.Committee.Anchor); err != nil {
		return err
	}
	return n.Reward.Validate()
}

// apply installs the chain tunables and returns the selector options of the network.
// A non-empty mode overrides the one of the network.
func (n *network) apply(mode string) (committee.Options, error) {
	if mode == "" {
		mode = n.Committee.Mode
	}
	m, err := committee.ParseActivationMode(mode)
	if err != nil {
		return committee.Options{}, err
	}
	anchor, err := committee.ParseAnchor(n.Committee.Anchor)
	if err != nil {
		return committee.Options{}, err
	}
	kaia.SetConfig(n.Chain)
	return committee.Options{
		Interval:  kaia.StakingUpdateInterval(),
		Mode:      m,
		Anchor:    anchor,
		MinStake:  kaia.MinimumStake(),
		GovNode:   n.Committee.GovNode,
		Retention: n.Committee.Retention,
	}, nil
}
