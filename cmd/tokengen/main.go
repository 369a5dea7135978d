package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"
	"hgigs.backend/internal/config"
	"hgigs.backend/pkg/jwt"
)

var generateKey = crypto.GenerateKey

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	address := flag.String("address", "", "wallet address the token authenticates")
	newWallet := flag.Bool("new-wallet", false, "generate a fresh wallet and issue a token for it")
	ttl := flag.Duration("ttl", cfg.JWT.Expiry, "token lifetime")
	secret := flag.String("secret", cfg.JWT.Secret, "HMAC secret, defaults to JWT_SECRET")
	flag.Parse()

	var privateKey string
	if *newWallet {
		addr, key, err := generateWallet()
		if err != nil {
			log.Fatalf("failed to generate wallet: %v", err)
		}
		*address, privateKey = addr.Hex(), key
	}

	wallet, err := validateInputs(*address, *ttl)
	if err != nil {
		log.Fatalf("invalid input: %v", err)
	}

	token, err := buildToken(*secret, wallet, *ttl)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	fmt.Println("Generated caller token")
	fmt.Printf("ADDRESS=%s\n", wallet.Hex())
	if privateKey != "" {
		fmt.Printf("PRIVATE_KEY=%s\n", privateKey)
	}
	fmt.Printf("TOKEN=%s\n", token)
}

func validateInputs(address string, ttl time.Duration) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("address %q is not a hex wallet address", address)
	}
	wallet := common.HexToAddress(address)
	if wallet == (common.Address{}) {
		return common.Address{}, errors.New("address must not be the zero address")
	}
	if ttl <= 0 {
		return common.Address{}, fmt.Errorf("ttl must be positive, got %s", ttl)
	}
	return wallet, nil
}

func buildToken(secret string, wallet common.Address, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("secret must not be empty")
	}
	return jwt.NewJWTService(secret, ttl).GenerateToken(wallet)
}

func generateWallet() (common.Address, string, error) {
	key, err := generateKey()
	if err != nil {
		return common.Address{}, "", err
	}
	return crypto.PubkeyToAddress(key.PublicKey), hexutil.Encode(crypto.FromECDSA(key)), nil
}
