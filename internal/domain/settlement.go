package domain

// Settle splits escrowed collateral between the offer owner and the driver
// based on actual usage. Usage at or above the reserved quantity pays the full
// collateral to the owner; anything beyond the reservation is clamped, never
// charged. Arithmetic is exact: ownerPayout + driverRefund == collateral when
// usage is partial.
func Settle(collateral, offeredTariff, energyToTransfer, usedUnits uint64) (ownerPayout, driverRefund uint64) {
	if usedUnits >= energyToTransfer {
		return collateral, 0
	}
	ownerPayout = offeredTariff * usedUnits
	return ownerPayout, collateral - ownerPayout
}
