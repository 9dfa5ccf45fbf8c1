package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/solanashuffle/splclient/api/faucet"
)

func SetApiGroup(group fiber.Router, f *faucet.Faucet) {
	faucet.SetFaucetGroup(group, f)
}
